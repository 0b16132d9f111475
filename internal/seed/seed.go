// Package seed provides the initial book catalog: a built-in starter set or
// a YAML fixture file.
package seed

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"liblend-backend/internal/domain"
	"liblend-backend/internal/repository"
)

type fixtureBook struct {
	ID          string `yaml:"id"`
	Title       string `yaml:"title"`
	Author      string `yaml:"author"`
	Category    string `yaml:"category"`
	Description string `yaml:"description"`
	Policy      struct {
		Kind  string `yaml:"kind"`
		Hours int    `yaml:"hours"`
	} `yaml:"policy"`
}

type fixtureFile struct {
	Books []fixtureBook `yaml:"books"`
}

// SampleBooks returns the built-in starter catalog.
func SampleBooks(now time.Time) []domain.Book {
	timed72, _ := domain.TimedPolicy(72)
	return []domain.Book{
		{ID: "1", Title: "Clean Code", Author: "Robert Martin", Category: "Programming", Description: "A Handbook of Agile Software Craftsmanship", Policy: domain.StandardPolicy(), CreatedAt: now},
		{ID: "2", Title: "Introduction to Algorithms", Author: "Cormen", Category: "Programming", Description: "Comprehensive algorithms textbook", Policy: domain.StandardPolicy(), CreatedAt: now},
		{ID: "3", Title: "Python Crash Course", Author: "Eric Matthes", Category: "Programming", Description: "Hands-on Python project-based guide", Policy: domain.DailyReturnPolicy(), CreatedAt: now},
		{ID: "4", Title: "The Pragmatic Programmer", Author: "Andrew Hunt", Category: "Programming", Description: "Journey to Mastery", Policy: domain.StandardPolicy(), CreatedAt: now},
		{ID: "5", Title: "Design Patterns", Author: "Gamma, Helm, Johnson, Vlissides", Category: "Programming", Description: "Elements of Reusable Object-Oriented Software", Policy: timed72, CreatedAt: now},
	}
}

// LoadFixture reads a YAML catalog fixture, validating every policy. Books
// without an id get a generated one.
func LoadFixture(path string, now time.Time) ([]domain.Book, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read fixture file: %w", err)
	}

	var f fixtureFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse fixture file: %w", err)
	}

	books := make([]domain.Book, 0, len(f.Books))
	for i, fb := range f.Books {
		p, err := parsePolicy(fb.Policy.Kind, fb.Policy.Hours)
		if err != nil {
			return nil, fmt.Errorf("book %d (%s): %w", i+1, fb.Title, err)
		}

		id := fb.ID
		if id == "" {
			id = uuid.NewString()
		}
		books = append(books, domain.Book{
			ID:          id,
			Title:       fb.Title,
			Author:      fb.Author,
			Category:    fb.Category,
			Description: fb.Description,
			Policy:      p,
			CreatedAt:   now,
		})
	}
	return books, nil
}

func parsePolicy(kind string, hours int) (domain.BorrowPolicy, error) {
	switch domain.PolicyKind(kind) {
	case domain.PolicyStandard, "":
		return domain.StandardPolicy(), nil
	case domain.PolicyDailyReturn:
		return domain.DailyReturnPolicy(), nil
	case domain.PolicyTimed:
		return domain.TimedPolicy(hours)
	default:
		return domain.BorrowPolicy{}, fmt.Errorf("unknown policy kind %q: %w", kind, domain.ErrInvalidPolicyConfig)
	}
}

// Populate inserts the books that are not already present. Existing ids are
// skipped, so reseeding is safe.
func Populate(ctx context.Context, repo repository.BookRepository, books []domain.Book) (int, error) {
	created := 0
	for i := range books {
		book := books[i]
		_, err := repo.GetByID(ctx, book.ID)
		if err == nil {
			continue
		}
		if !errors.Is(err, domain.ErrBookNotFound) {
			return created, err
		}

		if err := repo.Create(ctx, &book); err != nil {
			return created, fmt.Errorf("failed to create book %q: %w", book.Title, err)
		}
		created++
	}
	return created, nil
}
