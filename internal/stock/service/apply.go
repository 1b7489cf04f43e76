package service

import (
	"math"
	"time"

	ingredientdomain "github.com/smallbiznis/pizzaria/internal/ingredient/domain"
	machinedomain "github.com/smallbiznis/pizzaria/internal/machine/domain"
	recipedomain "github.com/smallbiznis/pizzaria/internal/recipe/domain"
	stockdomain "github.com/smallbiznis/pizzaria/internal/stock/domain"
)

// ledger accumulates per-ingredient consumption in first-touch order.
type ledger struct {
	index map[string]int
	rows  []stockdomain.Consumption
}

func (l *ledger) add(id string, requested, consumed float64) {
	if l.index == nil {
		l.index = make(map[string]int)
	}
	i, ok := l.index[id]
	if !ok {
		i = len(l.rows)
		l.index[id] = i
		l.rows = append(l.rows, stockdomain.Consumption{IngredientID: id})
	}
	l.rows[i].Requested += requested
	l.rows[i].Consumed += consumed
}

// apply mutates ingredients and machines in place for one order and fills
// out. It performs no I/O.
func apply(
	now time.Time,
	ingredients []ingredientdomain.Ingredient,
	machines []machinedomain.Machine,
	recipes []recipedomain.Recipe,
	items []stockdomain.Item,
	out *stockdomain.Outcome,
) {
	byID := make(map[string]int, len(ingredients))
	for i := range ingredients {
		if _, dup := byID[ingredients[i].ID]; !dup {
			byID[ingredients[i].ID] = i
		}
	}

	var consumed ledger
	consume := func(recipe *recipedomain.Recipe, factor float64) {
		for _, ri := range recipe.Ingredients() {
			idx, ok := byID[ri.IngredientID]
			if !ok {
				continue
			}
			amount := ri.Quantity * factor
			before := ingredients[idx].Stock
			ingredients[idx].Stock = math.Max(0, before-amount)
			ingredients[idx].LastUpdated = now
			consumed.add(ri.IngredientID, amount, before-ingredients[idx].Stock)
		}
	}

	for _, item := range items {
		if item.Type != stockdomain.ItemTypePizza {
			continue
		}
		base := stockdomain.SizeMultiplier(item.Size) * float64(item.Quantity)

		if len(item.Flavors) > 0 {
			split := float64(len(item.Flavors))
			for _, flavor := range item.Flavors {
				recipe, ok := recipedomain.MatchName(recipes, flavor)
				if !ok {
					out.SkippedFlavors = append(out.SkippedFlavors, flavor)
					continue
				}
				consume(recipe, base/split)
			}
		} else if recipe, ok := recipedomain.MatchName(recipes, item.Name); ok {
			consume(recipe, base)
		} else {
			out.SkippedFlavors = append(out.SkippedFlavors, item.Name)
		}

		out.CookingMinutes += stockdomain.OvenMinutesPerPizza * item.Quantity
		out.PizzasProduced += item.Quantity
	}
	out.Consumptions = consumed.rows

	if idx := machinedomain.FirstOfType(machines, machinedomain.TypeMixer); idx >= 0 && out.PizzasProduced > 0 {
		out.MixerHoursAdded = float64(out.PizzasProduced*stockdomain.MixerMinutesPerPizza) / 60
		machines[idx].HoursUsed += out.MixerHoursAdded
		escalate(&machines[idx], out)
	}
	if idx := machinedomain.FirstOfType(machines, machinedomain.TypeOven); idx >= 0 {
		out.OvenHoursAdded = float64(out.CookingMinutes) / 60
		machines[idx].HoursUsed += out.OvenHoursAdded
		escalate(&machines[idx], out)
	}
}

func escalate(m *machinedomain.Machine, out *stockdomain.Outcome) {
	if m.Status != machinedomain.StatusOperational || m.MaxHours <= 0 {
		return
	}
	pct := m.UsagePercent()
	if pct < stockdomain.EscalationPercent {
		return
	}
	m.Status = machinedomain.StatusMaintenanceNeeded
	m.Notes = machinedomain.UsageEscalationNote(pct)
	out.MachineTransitions = append(out.MachineTransitions, stockdomain.MachineTransition{
		MachineID:    m.ID,
		MachineType:  m.Type,
		From:         string(machinedomain.StatusOperational),
		To:           string(machinedomain.StatusMaintenanceNeeded),
		UsagePercent: pct,
	})
}
