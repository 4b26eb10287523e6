// Package seed loads recruits, submissions and bookmarks from YAML files.
//
// Recruit fields use the board's column names ("Name", "KC Grade",
// "KC's Take", ...). Submissions and bookmarks reference recruits by id or,
// for recruits without an id in the file, by name.
package seed

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/okian/wecruit/internal/adapters/repository"
	"github.com/okian/wecruit/internal/domain/model"
	"github.com/okian/wecruit/internal/domain/vocab"
)

// ErrInvalidSeed is returned for seed files that violate the data model.
var ErrInvalidSeed = errors.New("invalid seed")

// File is the decoded content of a seed file.
type File struct {
	Recruits    []Recruit    `yaml:"recruits"`
	Submissions []Submission `yaml:"submissions"`
	Bookmarks   []Bookmark   `yaml:"bookmarks"`
}

// Recruit is one recruit record.
type Recruit struct {
	ID        string `yaml:"id"`
	Name      string `yaml:"Name"`
	Class     string `yaml:"Class"`
	Position  string `yaml:"Position"`
	School    string `yaml:"School"`
	State     string `yaml:"State"`
	Height    string `yaml:"Height"`
	Weight    string `yaml:"Weight"`
	KCGrade   string `yaml:"KC Grade"`
	Archetype string `yaml:"Archetype"`
	KCTake    string `yaml:"KC's Take"`
}

// Submission is one user's evaluation of a recruit.
type Submission struct {
	Recruit         string    `yaml:"recruit"`
	User            string    `yaml:"user"`
	Grade           string    `yaml:"grade"`
	Strengths       []string  `yaml:"strengths"`
	PredictedSchool string    `yaml:"predictedSchool"`
	Comment         string    `yaml:"comment"`
	SubmittedAt     time.Time `yaml:"submittedAt"`
	EditedAt        time.Time `yaml:"editedAt"`
}

// Bookmark puts a recruit on a user's list.
type Bookmark struct {
	Recruit      string    `yaml:"recruit"`
	User         string    `yaml:"user"`
	BookmarkedAt time.Time `yaml:"bookmarkedAt"`
}

// Result counts the records written by Apply.
type Result struct {
	Recruits    int
	Submissions int
	Bookmarks   int
}

// Load reads and validates the seed file at path.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed %s: %w", path, err)
	}
	f, err := Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("seed %s: %w", path, err)
	}
	return f, nil
}

// Parse decodes and validates a seed document. Recruits without an id get
// a generated one.
func Parse(r io.Reader) (*File, error) {
	var f File
	if err := yaml.NewDecoder(r).Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode: %w", err)
	}
	if err := f.normalize(); err != nil {
		return nil, err
	}
	return &f, nil
}

func (f *File) normalize() error {
	byName := make(map[string]string, len(f.Recruits))
	seen := make(map[string]bool, len(f.Recruits))
	for i := range f.Recruits {
		r := &f.Recruits[i]
		r.ID = strings.TrimSpace(r.ID)
		r.Name = strings.TrimSpace(r.Name)
		if r.Name == "" {
			return fmt.Errorf("%w: recruit %d has no Name", ErrInvalidSeed, i)
		}
		if r.ID == "" {
			r.ID = uuid.NewString()
			byName[r.Name] = r.ID
		}
		if seen[r.ID] {
			return fmt.Errorf("%w: duplicate recruit id %q", ErrInvalidSeed, r.ID)
		}
		seen[r.ID] = true
	}

	resolve := func(ref string) string {
		if id, ok := byName[ref]; ok {
			return id
		}
		return ref
	}
	for i := range f.Submissions {
		s := &f.Submissions[i]
		s.Recruit = resolve(strings.TrimSpace(s.Recruit))
		if s.Recruit == "" || strings.TrimSpace(s.User) == "" {
			return fmt.Errorf("%w: submission %d needs recruit and user", ErrInvalidSeed, i)
		}
		if err := s.validate(); err != nil {
			return fmt.Errorf("%w: submission %d: %w", ErrInvalidSeed, i, err)
		}
	}
	for i := range f.Bookmarks {
		b := &f.Bookmarks[i]
		b.Recruit = resolve(strings.TrimSpace(b.Recruit))
		if b.Recruit == "" || strings.TrimSpace(b.User) == "" {
			return fmt.Errorf("%w: bookmark %d needs recruit and user", ErrInvalidSeed, i)
		}
	}
	return nil
}

func (s Submission) validate() error {
	if s.Grade != "" && !vocab.IsGrade(s.Grade) {
		return fmt.Errorf("unknown grade %q", s.Grade)
	}
	if s.PredictedSchool != "" && !vocab.IsSchool(s.PredictedSchool) {
		return fmt.Errorf("unknown school %q", s.PredictedSchool)
	}
	if len(s.Strengths) > vocab.MaxStrengths {
		return fmt.Errorf("%d strengths, at most %d allowed", len(s.Strengths), vocab.MaxStrengths)
	}
	for _, st := range s.Strengths {
		if !vocab.IsStrength(st) {
			return fmt.Errorf("unknown strength %q", st)
		}
	}
	return nil
}

// Model converts the seed record.
func (r Recruit) Model() model.Recruit {
	return model.Recruit{
		ID:        r.ID,
		Name:      r.Name,
		Class:     r.Class,
		Position:  r.Position,
		School:    r.School,
		State:     r.State,
		Height:    r.Height,
		Weight:    r.Weight,
		KCGrade:   r.KCGrade,
		Archetype: r.Archetype,
		KCTake:    r.KCTake,
	}
}

// Model converts the seed record. A missing editedAt defaults to submittedAt.
func (s Submission) Model() model.Submission {
	strengths := append([]string{}, s.Strengths...)
	edited := s.EditedAt
	if edited.IsZero() {
		edited = s.SubmittedAt
	}
	return model.Submission{
		Grade:           s.Grade,
		Strengths:       strengths,
		PredictedSchool: s.PredictedSchool,
		Comment:         s.Comment,
		SubmittedAt:     s.SubmittedAt,
		EditedAt:        edited,
	}
}

// Apply writes every record of f to store, replacing existing records with
// the same keys.
func Apply(ctx context.Context, store repository.Store, f *File) (Result, error) {
	var res Result
	for _, r := range f.Recruits {
		if err := store.PutRecruit(ctx, r.Model()); err != nil {
			return res, fmt.Errorf("put recruit %q: %w", r.ID, err)
		}
		res.Recruits++
	}
	for _, s := range f.Submissions {
		if err := store.PutSubmission(ctx, s.Recruit, s.User, s.Model()); err != nil {
			return res, fmt.Errorf("put submission %q/%q: %w", s.Recruit, s.User, err)
		}
		res.Submissions++
	}
	for _, b := range f.Bookmarks {
		bm := model.Bookmark{RecruitID: b.Recruit, BookmarkedAt: b.BookmarkedAt}
		if err := store.PutBookmark(ctx, b.User, bm); err != nil {
			return res, fmt.Errorf("put bookmark %q/%q: %w", b.User, b.Recruit, err)
		}
		res.Bookmarks++
	}
	return res, nil
}
