package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/fmkparty/fmk/internal/person"
)

// CustomList is a user-created (or AI-generated) category of people.
type CustomList struct {
	ID          string
	Name        string
	Description string
	Prompt      string
	PeopleCount int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// SaveCustomList upserts a list's metadata.
func (s *Store) SaveCustomList(ctx context.Context, l CustomList) error {
	if l.ID == "" || l.Name == "" {
		return fmt.Errorf("list id and name are required")
	}
	now := time.Now()
	createdAt := l.CreatedAt
	if createdAt.IsZero() {
		createdAt = now
	}
	updatedAt := l.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = now
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO custom_lists (id, name, description, prompt, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			name = excluded.name,
			description = excluded.description,
			prompt = excluded.prompt,
			updated_at = excluded.updated_at`,
		l.ID, l.Name, l.Description, l.Prompt, toMillis(createdAt), toMillis(updatedAt))
	if err != nil {
		return fmt.Errorf("save custom list: %w", err)
	}
	return nil
}

// CustomLists returns every list with its people count, newest first.
func (s *Store) CustomLists(ctx context.Context) ([]CustomList, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT l.id, l.name, l.description, l.prompt, l.created_at, l.updated_at,
		       COUNT(p.id)
		FROM custom_lists l
		LEFT JOIN custom_people p ON p.list_id = l.id
		GROUP BY l.id
		ORDER BY l.created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list custom lists: %w", err)
	}
	defer rows.Close()

	var lists []CustomList
	for rows.Next() {
		var (
			l         CustomList
			createdAt int64
			updatedAt int64
		)
		if err := rows.Scan(&l.ID, &l.Name, &l.Description, &l.Prompt,
			&createdAt, &updatedAt, &l.PeopleCount); err != nil {
			return nil, fmt.Errorf("scan custom list: %w", err)
		}
		l.CreatedAt = fromMillis(createdAt)
		l.UpdatedAt = fromMillis(updatedAt)
		lists = append(lists, l)
	}
	return lists, rows.Err()
}

// CustomList returns one list by id.
func (s *Store) CustomList(ctx context.Context, id string) (CustomList, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT l.id, l.name, l.description, l.prompt, l.created_at, l.updated_at,
		       COUNT(p.id)
		FROM custom_lists l
		LEFT JOIN custom_people p ON p.list_id = l.id
		WHERE l.id = ?
		GROUP BY l.id`, id)

	var (
		l         CustomList
		createdAt int64
		updatedAt int64
	)
	err := row.Scan(&l.ID, &l.Name, &l.Description, &l.Prompt,
		&createdAt, &updatedAt, &l.PeopleCount)
	if errors.Is(err, sql.ErrNoRows) {
		return CustomList{}, ErrNotFound
	}
	if err != nil {
		return CustomList{}, fmt.Errorf("read custom list: %w", err)
	}
	l.CreatedAt = fromMillis(createdAt)
	l.UpdatedAt = fromMillis(updatedAt)
	return l, nil
}

// DeleteCustomList removes a list. Its people go with it via the
// foreign key cascade.
func (s *Store) DeleteCustomList(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM custom_lists WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete custom list: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// SaveCustomPeople inserts people into a list in one transaction.
func (s *Store) SaveCustomPeople(ctx context.Context, listID string, people []person.Person) error {
	if listID == "" {
		return fmt.Errorf("list id is required")
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	for _, p := range people {
		if p.ID == "" || p.Name == "" {
			return fmt.Errorf("person id and name are required")
		}
		createdAt := p.CreatedAt
		if createdAt.IsZero() {
			createdAt = time.Now()
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO custom_people (id, list_id, name, gender, birth_year,
				image_url, bio, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT (id) DO UPDATE SET
				name = excluded.name,
				gender = excluded.gender,
				birth_year = excluded.birth_year,
				image_url = excluded.image_url,
				bio = excluded.bio`,
			p.ID, listID, p.Name, string(p.Gender), p.BirthYear,
			p.ImageURL, p.Bio, toMillis(createdAt))
		if err != nil {
			return fmt.Errorf("save person %s: %w", p.ID, err)
		}
	}
	return tx.Commit()
}

// CustomPeople returns the people in one list.
func (s *Store) CustomPeople(ctx context.Context, listID string) ([]person.Person, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, gender, birth_year, image_url, bio, created_at
		FROM custom_people WHERE list_id = ? ORDER BY created_at ASC, id ASC`, listID)
	if err != nil {
		return nil, fmt.Errorf("list custom people: %w", err)
	}
	defer rows.Close()

	var people []person.Person
	for rows.Next() {
		var (
			p         person.Person
			gender    string
			createdAt int64
		)
		if err := rows.Scan(&p.ID, &p.Name, &gender, &p.BirthYear,
			&p.ImageURL, &p.Bio, &createdAt); err != nil {
			return nil, fmt.Errorf("scan person: %w", err)
		}
		p.Gender = person.Gender(gender)
		p.Source = person.SourceCustom
		p.ListID = listID
		p.CreatedAt = fromMillis(createdAt)
		people = append(people, p)
	}
	return people, rows.Err()
}

// DeleteCustomPerson removes one person from a list.
func (s *Store) DeleteCustomPerson(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM custom_people WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete person: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
