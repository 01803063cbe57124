package gitversioning

import (
	"errors"
	"fmt"
)

// Session resolves versions for the projects of one build run. The
// repository situation is read once; every artifact is resolved at most once.
// A Session is safe for concurrent use.
type Session struct {
	situation RepositorySituation
	config    Configuration
	overrides Overrides
	log       *MessageLog
	cache     *ResultCache
}

// NewSession reads the repository situation from provider and validates
// config.
func NewSession(provider SituationProvider, config Configuration, overrides Overrides, log *MessageLog) (*Session, error) {
	if provider == nil {
		return nil, ErrRepositoryRequired
	}

	config = config.Clone()
	if err := config.Compile(); err != nil {
		return nil, err
	}

	situation, err := provider.Situation()
	if err != nil {
		return nil, fmt.Errorf("reading repository situation: %w", err)
	}

	return &Session{
		situation: situation,
		config:    config,
		overrides: overrides,
		log:       log,
		cache:     NewResultCache(),
	}, nil
}

// Situation returns the repository situation the session works from.
func (s *Session) Situation() RepositorySituation {
	return s.situation
}

// ResolveProject returns the version of project. A parent project is
// resolved first and its version reported as ParentVersion. A parent chain
// that leads back to an artifact already in it is rejected.
func (s *Session) ResolveProject(project Project) (*ProjectVersion, error) {
	if project.ArtifactID == "" {
		return nil, errors.New("project artifact id is required")
	}
	if err := checkParentChain(project); err != nil {
		return nil, err
	}

	// parents resolve outside the child's flight so flights never nest
	var parentVersion string
	if project.Parent != nil {
		parent, err := s.ResolveProject(*project.Parent)
		if err != nil {
			return nil, fmt.Errorf("resolving parent of %s: %w", project.ArtifactID, err)
		}
		parentVersion = parent.Version
	}

	return s.cache.GetOrCompute(project.ArtifactID, func() (*ProjectVersion, error) {
		pv := resolve(s.situation, s.config, s.overrides, project, s.log)
		pv.ParentVersion = parentVersion
		return pv, nil
	})
}

func checkParentChain(project Project) error {
	seen := map[string]bool{}
	for p := &project; p != nil; p = p.Parent {
		if seen[p.ArtifactID] {
			return fmt.Errorf("%w: %s", ErrParentCycle, p.ArtifactID)
		}
		seen[p.ArtifactID] = true
	}
	return nil
}
