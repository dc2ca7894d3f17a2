package config

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/verte-zerg/cogtrain/internal/model"
	"github.com/verte-zerg/cogtrain/internal/store"
)

// PlanKey is the KV key of the daily plan.
const PlanKey = "reaction_trainer_plan_v1"

// DefaultPlan returns the daily targets used until the user edits them.
func DefaultPlan() []model.PlanItem {
	return []model.PlanItem{
		{Game: model.GameReaction, TargetPerDay: 3},
		{Game: model.GameAim, TargetPerDay: 2},
		{Game: model.GameGoNoGo, TargetPerDay: 2},
	}
}

// LoadPlan reads the stored plan. A missing, empty or corrupt plan yields
// DefaultPlan; items naming unknown games are skipped.
func LoadPlan(ctx context.Context, kv store.KV) ([]model.PlanItem, error) {
	raw, ok, err := kv.Get(ctx, PlanKey)
	if err != nil {
		return DefaultPlan(), fmt.Errorf("load plan: %w", err)
	}
	if !ok || strings.TrimSpace(raw) == "" {
		return DefaultPlan(), nil
	}
	var items []model.PlanItem
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return DefaultPlan(), fmt.Errorf("decode plan: %w", err)
	}
	out := items[:0]
	for _, it := range items {
		if it.Game.Valid() && it.TargetPerDay >= 0 {
			out = append(out, it)
		}
	}
	if len(out) == 0 {
		return DefaultPlan(), nil
	}
	return out, nil
}

// SavePlan persists the plan.
func SavePlan(ctx context.Context, kv store.KV, items []model.PlanItem) error {
	if items == nil {
		items = []model.PlanItem{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode plan: %w", err)
	}
	if err := kv.Put(ctx, PlanKey, string(data)); err != nil {
		return fmt.Errorf("save plan: %w", err)
	}
	return nil
}

// SetTarget sets the daily target for game, appending an item if the plan
// has none. A target of 0 removes the game from the plan.
func SetTarget(items []model.PlanItem, game model.Game, target int) ([]model.PlanItem, error) {
	if !game.Valid() {
		return items, fmt.Errorf("%w %q", model.ErrUnknownGame, game)
	}
	if target < 0 {
		return items, fmt.Errorf("target must be >= 0")
	}
	out := make([]model.PlanItem, 0, len(items)+1)
	found := false
	for _, it := range items {
		if it.Game == game {
			found = true
			if target == 0 {
				continue
			}
			it.TargetPerDay = target
		}
		out = append(out, it)
	}
	if !found && target > 0 {
		out = append(out, model.PlanItem{Game: game, TargetPerDay: target})
	}
	return out, nil
}
