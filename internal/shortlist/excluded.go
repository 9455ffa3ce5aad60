package shortlist

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"time"
)

const (
	ExcludeActorManual = "manual"
	ExcludeActorAI     = "ai"
)

// ExcludedCandidates is the content of the exclude file. Entries are keyed
// by résumé hash so that a re-run skips the same résumé even though it gets
// a new candidate id.
type ExcludedCandidates struct {
	Items []*ExcludedCandidate
}

type ExcludedCandidate struct {
	ResumeHash string
	Name       string
	Source     string
	Actor      string
	Reason     string `json:",omitempty"`
	ExcludedAt time.Time
}

func (s *Shortlist) ToExcluded(actor, reason string) *ExcludedCandidates {
	excluded := &ExcludedCandidates{}
	for _, c := range s.Items {
		excluded.Items = append(excluded.Items, &ExcludedCandidate{
			ResumeHash: c.ResumeHash(),
			Name:       c.Analysis.Basic.Name,
			Source:     c.Source,
			Actor:      actor,
			Reason:     reason,
			ExcludedAt: time.Now().UTC(),
		})
	}
	return excluded
}

// GetExcludedFromFile reads the exclude file. A missing or empty file is an
// empty list.
func GetExcludedFromFile(path string) (*ExcludedCandidates, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return &ExcludedCandidates{}, nil
	}
	if err != nil {
		return nil, err
	}

	if len(data) == 0 {
		return &ExcludedCandidates{}, nil
	}

	var excluded ExcludedCandidates
	if err := json.Unmarshal(data, &excluded); err != nil {
		return nil, err
	}
	return &excluded, nil
}

func (e *ExcludedCandidates) Append(other *ExcludedCandidates) {
	e.Items = append(e.Items, other.Items...)
}

func (e *ExcludedCandidates) ResumeHashes() []string {
	hashes := make([]string, 0, len(e.Items))
	for _, c := range e.Items {
		hashes = append(hashes, c.ResumeHash)
	}
	return hashes
}

func (e *ExcludedCandidates) ToFile(path string) error {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	return enc.Encode(e)
}

// AppendToFile adds candidates to the exclude file at path.
func AppendToFile(path string, add *ExcludedCandidates) error {
	excluded, err := GetExcludedFromFile(path)
	if err != nil {
		return err
	}
	excluded.Append(add)
	return excluded.ToFile(path)
}
