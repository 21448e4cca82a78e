package engine

import (
	"context"
	"fmt"
	"strings"

	"dailyquest/internal/storage"
)

type BlueprintStatus string

const (
	BlueprintLocked    BlueprintStatus = "locked"
	BlueprintAvailable BlueprintStatus = "available"
	// BlueprintActive means the user already has a task with the blueprint's title.
	BlueprintActive BlueprintStatus = "active"
)

// BlueprintDef is a ready-made daily task the user can accept once their
// level allows it.
type BlueprintDef struct {
	Code     string
	Title    string
	Icon     string
	MinLevel int
}

type Blueprint struct {
	Code     string          `json:"code"`
	Title    string          `json:"title"`
	Icon     string          `json:"icon"`
	MinLevel int             `json:"min_level"`
	Status   BlueprintStatus `json:"status"`
}

func builtinBlueprints() []BlueprintDef {
	return []BlueprintDef{
		{Code: "protein", Title: "Hit Protein Goal", Icon: "🥩", MinLevel: 1},
		{Code: "workout", Title: "Workout", Icon: "💪", MinLevel: 1},
		{Code: "deep_work", Title: "Deep Work", Icon: "🧠", MinLevel: 1},
		{Code: "reading", Title: "Read 10 pages", Icon: "📚", MinLevel: 2},
		{Code: "meditate", Title: "Meditate", Icon: "🧘", MinLevel: 3},
	}
}

func normalizeBlueprintCode(code string) (string, error) {
	c := strings.TrimSpace(strings.ToLower(code))
	if c == "" {
		return "", fmt.Errorf("blueprint code is required")
	}
	return c, nil
}

func blueprintStatus(def BlueprintDef, snap *storage.Snapshot) BlueprintStatus {
	for _, t := range snap.Tasks {
		if strings.EqualFold(t.Title, def.Title) {
			return BlueprintActive
		}
	}
	if snap.Stats.Level < def.MinLevel {
		return BlueprintLocked
	}
	return BlueprintAvailable
}

// Blueprints lists the built-in task templates with their status for userID.
func (s *Service) Blueprints(ctx context.Context, userID string) ([]Blueprint, error) {
	snap, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	defs := builtinBlueprints()
	out := make([]Blueprint, 0, len(defs))
	for _, def := range defs {
		out = append(out, Blueprint{
			Code:     def.Code,
			Title:    def.Title,
			Icon:     def.Icon,
			MinLevel: def.MinLevel,
			Status:   blueprintStatus(def, snap),
		})
	}
	return out, nil
}

// AcceptBlueprint creates the blueprint's task. Only available blueprints
// can be accepted.
func (s *Service) AcceptBlueprint(ctx context.Context, userID, code string) (*storage.Task, error) {
	c, err := normalizeBlueprintCode(code)
	if err != nil {
		return nil, err
	}

	var def *BlueprintDef
	defs := builtinBlueprints()
	for i := range defs {
		if defs[i].Code == c {
			def = &defs[i]
			break
		}
	}
	if def == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownBlueprint, c)
	}

	unlock := s.locks.lock(userID)
	defer unlock()

	snap, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	if snap, err = s.catchUp(ctx, userID, snap); err != nil {
		return nil, err
	}
	if st := blueprintStatus(*def, snap); st != BlueprintAvailable {
		return nil, fmt.Errorf("%w: %s (status=%s)", ErrBlueprintUnavailable, c, st)
	}

	task, err := NewTask(userID, def.Title, s.now())
	if err != nil {
		return nil, err
	}
	if err := s.commit(ctx, "accept blueprint", userID, storage.Mutation{Tasks: []storage.Task{task}}); err != nil {
		return nil, err
	}
	return &task, nil
}
