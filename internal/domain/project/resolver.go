package project

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

// Resolver maps a free-text project name onto a concrete project.
type Resolver struct {
	cache  *Cache
	llm    Completer
	logger *slog.Logger
}

// NewResolver creates a resolver. llm may be nil, in which case ambiguous
// names resolve to the first candidate.
func NewResolver(cache *Cache, llm Completer, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Resolver{cache: cache, llm: llm, logger: logger}
}

// Resolve finds the project best matching name.
//
// An exact slug match wins outright. A single substring hit on slug or name
// is returned directly. Anything else is handed to the language model to
// pick from the partial matches, or from the whole list when nothing matched.
func (r *Resolver) Resolve(ctx context.Context, name string) (*Match, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrNameRequired
	}

	projects, err := r.cache.Projects(ctx)
	if err != nil {
		return nil, err
	}

	needle := strings.ToLower(name)
	for _, p := range projects {
		if strings.ToLower(p.Slug) == needle {
			return &Match{Slug: p.Slug, Name: p.Name}, nil
		}
	}

	var partial []Project
	for _, p := range projects {
		if strings.Contains(strings.ToLower(p.Slug), needle) || strings.Contains(strings.ToLower(p.Name), needle) {
			partial = append(partial, p)
		}
	}
	if len(partial) == 1 {
		return &Match{Slug: partial[0].Slug, Name: partial[0].Name}, nil
	}

	candidates := partial
	if len(candidates) == 0 {
		candidates = projects
	}
	if len(candidates) == 0 {
		return nil, &NoMatchError{Name: name}
	}
	return r.choose(ctx, name, candidates), nil
}

func (r *Resolver) choose(ctx context.Context, name string, candidates []Project) *Match {
	fallback := &Match{Slug: candidates[0].Slug, Name: candidates[0].Name}
	if r.llm == nil {
		return fallback
	}

	reply, err := r.llm.Complete(ctx, BuildPrompt(name, candidates))
	if err != nil {
		r.logger.Warn("project disambiguation failed, using first candidate", "name", name, "error", err)
		return fallback
	}
	if p, ok := pickFromReply(reply, candidates); ok {
		return &Match{Slug: p.Slug, Name: p.Name}
	}
	r.logger.Warn("model reply matched no candidate", "name", name, "reply", reply)
	return fallback
}

// BuildPrompt renders the disambiguation prompt sent to the model.
func BuildPrompt(name string, candidates []Project) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Find the Sentry project that best matches %q.\n\n", name)
	b.WriteString("Available projects:\n")
	for _, p := range candidates {
		fmt.Fprintf(&b, "- %s (slug: %s)\n", p.Name, p.Slug)
	}
	b.WriteString("\nReply with only the slug of the best match.")
	return b.String()
}

// pickFromReply returns the first candidate, in listing order, whose slug or
// name appears anywhere in reply.
func pickFromReply(reply string, candidates []Project) (Project, bool) {
	reply = strings.ToLower(reply)
	for _, p := range candidates {
		if p.Slug != "" && strings.Contains(reply, strings.ToLower(p.Slug)) {
			return p, true
		}
		if p.Name != "" && strings.Contains(reply, strings.ToLower(p.Name)) {
			return p, true
		}
	}
	return Project{}, false
}
