// Package loader fills the database from the fixed-schema CSV fixtures.
// It is an offline administrative tool, never reachable over the API.
package loader

import (
	"encoding/csv"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gorm.io/gorm"

	"reviewhub/internal/httpapi/models"
)

// Loader imports the seven fixture files in dependency order inside one
// transaction. Rows whose id already exists are left untouched; a missing
// foreign-key reference aborts the whole run.
type Loader struct {
	db     *gorm.DB
	dir    string
	logger *slog.Logger
}

func New(db *gorm.DB, dir string, logger *slog.Logger) *Loader {
	return &Loader{db: db, dir: dir, logger: logger}
}

func (l *Loader) Run() error {
	return l.db.Transaction(func(tx *gorm.DB) error {
		steps := []struct {
			file string
			load func(tx *gorm.DB, rows [][]string) error
		}{
			{"category.csv", l.loadCategories},
			{"genre.csv", l.loadGenres},
			{"titles.csv", l.loadTitles},
			{"genre_title.csv", l.loadGenreTitles},
			{"users.csv", l.loadUsers},
			{"review.csv", l.loadReviews},
			{"comments.csv", l.loadComments},
		}

		for _, step := range steps {
			rows, err := l.readCSV(step.file)
			if err != nil {
				return err
			}
			if err := step.load(tx, rows); err != nil {
				return fmt.Errorf("%s: %w", step.file, err)
			}
			l.logger.Info("imported fixture", "file", step.file, "rows", len(rows))
		}
		return nil
	})
}

// readCSV returns the data rows of a fixture, header stripped.
func (l *Loader) readCSV(name string) ([][]string, error) {
	f, err := os.Open(filepath.Join(l.dir, name))
	if err != nil {
		return nil, fmt.Errorf("open fixture: %w", err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", name, err)
	}
	if len(records) == 0 {
		return nil, nil
	}
	return records[1:], nil
}

func (l *Loader) loadCategories(tx *gorm.DB, rows [][]string) error {
	for i, row := range rows {
		id, err := parseInt64(row[0])
		if err != nil {
			return rowErr(i, err)
		}
		exists, err := recordExists(tx, &models.Category{}, id)
		if err != nil {
			return rowErr(i, err)
		}
		if exists {
			continue
		}
		if err := tx.Create(&models.Category{ID: id, Name: row[1], Slug: row[2]}).Error; err != nil {
			return rowErr(i, err)
		}
	}
	return nil
}

func (l *Loader) loadGenres(tx *gorm.DB, rows [][]string) error {
	for i, row := range rows {
		id, err := parseInt64(row[0])
		if err != nil {
			return rowErr(i, err)
		}
		exists, err := recordExists(tx, &models.Genre{}, id)
		if err != nil {
			return rowErr(i, err)
		}
		if exists {
			continue
		}
		if err := tx.Create(&models.Genre{ID: id, Name: row[1], Slug: row[2]}).Error; err != nil {
			return rowErr(i, err)
		}
	}
	return nil
}

func (l *Loader) loadTitles(tx *gorm.DB, rows [][]string) error {
	for i, row := range rows {
		id, err := parseInt64(row[0])
		if err != nil {
			return rowErr(i, err)
		}
		year, err := strconv.Atoi(row[2])
		if err != nil {
			return rowErr(i, err)
		}
		categoryID, err := parseInt64(row[3])
		if err != nil {
			return rowErr(i, err)
		}
		if err := requireRecord(tx, &models.Category{}, categoryID, "category"); err != nil {
			return rowErr(i, err)
		}

		exists, err := recordExists(tx, &models.Title{}, id)
		if err != nil {
			return rowErr(i, err)
		}
		if exists {
			continue
		}
		title := models.Title{ID: id, Name: row[1], Year: year, CategoryID: &categoryID}
		if err := tx.Create(&title).Error; err != nil {
			return rowErr(i, err)
		}
	}
	return nil
}

func (l *Loader) loadGenreTitles(tx *gorm.DB, rows [][]string) error {
	for i, row := range rows {
		id, err := parseInt64(row[0])
		if err != nil {
			return rowErr(i, err)
		}
		titleID, err := parseInt64(row[1])
		if err != nil {
			return rowErr(i, err)
		}
		genreID, err := parseInt64(row[2])
		if err != nil {
			return rowErr(i, err)
		}
		if err := requireRecord(tx, &models.Title{}, titleID, "title"); err != nil {
			return rowErr(i, err)
		}
		if err := requireRecord(tx, &models.Genre{}, genreID, "genre"); err != nil {
			return rowErr(i, err)
		}

		exists, err := recordExists(tx, &models.GenreTitle{}, id)
		if err != nil {
			return rowErr(i, err)
		}
		if exists {
			continue
		}
		if err := tx.Create(&models.GenreTitle{ID: id, TitleID: titleID, GenreID: genreID}).Error; err != nil {
			return rowErr(i, err)
		}
	}
	return nil
}

func (l *Loader) loadUsers(tx *gorm.DB, rows [][]string) error {
	for i, row := range rows {
		id, err := parseInt64(row[0])
		if err != nil {
			return rowErr(i, err)
		}
		exists, err := recordExists(tx, &models.User{}, id)
		if err != nil {
			return rowErr(i, err)
		}
		if exists {
			continue
		}
		user := models.User{
			ID:        id,
			Username:  row[1],
			Email:     row[2],
			Role:      row[3],
			Bio:       row[4],
			FirstName: row[5],
			LastName:  row[6],
		}
		if err := tx.Create(&user).Error; err != nil {
			return rowErr(i, err)
		}
	}
	return nil
}

func (l *Loader) loadReviews(tx *gorm.DB, rows [][]string) error {
	for i, row := range rows {
		id, err := parseInt64(row[0])
		if err != nil {
			return rowErr(i, err)
		}
		titleID, err := parseInt64(row[1])
		if err != nil {
			return rowErr(i, err)
		}
		authorID, err := parseInt64(row[3])
		if err != nil {
			return rowErr(i, err)
		}
		score, err := strconv.Atoi(row[4])
		if err != nil {
			return rowErr(i, err)
		}
		pubDate, err := time.Parse(time.RFC3339, row[5])
		if err != nil {
			return rowErr(i, err)
		}
		if err := requireRecord(tx, &models.Title{}, titleID, "title"); err != nil {
			return rowErr(i, err)
		}
		if err := requireRecord(tx, &models.User{}, authorID, "user"); err != nil {
			return rowErr(i, err)
		}

		exists, err := recordExists(tx, &models.Review{}, id)
		if err != nil {
			return rowErr(i, err)
		}
		if exists {
			continue
		}
		review := models.Review{
			ID:       id,
			TitleID:  titleID,
			Text:     row[2],
			AuthorID: authorID,
			Score:    score,
			PubDate:  pubDate,
		}
		if err := tx.Create(&review).Error; err != nil {
			return rowErr(i, err)
		}
	}
	return nil
}

func (l *Loader) loadComments(tx *gorm.DB, rows [][]string) error {
	for i, row := range rows {
		id, err := parseInt64(row[0])
		if err != nil {
			return rowErr(i, err)
		}
		reviewID, err := parseInt64(row[1])
		if err != nil {
			return rowErr(i, err)
		}
		authorID, err := parseInt64(row[3])
		if err != nil {
			return rowErr(i, err)
		}
		pubDate, err := time.Parse(time.RFC3339, row[4])
		if err != nil {
			return rowErr(i, err)
		}
		if err := requireRecord(tx, &models.Review{}, reviewID, "review"); err != nil {
			return rowErr(i, err)
		}
		if err := requireRecord(tx, &models.User{}, authorID, "user"); err != nil {
			return rowErr(i, err)
		}

		exists, err := recordExists(tx, &models.Comment{}, id)
		if err != nil {
			return rowErr(i, err)
		}
		if exists {
			continue
		}
		comment := models.Comment{
			ID:       id,
			ReviewID: reviewID,
			Text:     row[2],
			AuthorID: authorID,
			PubDate:  pubDate,
		}
		if err := tx.Create(&comment).Error; err != nil {
			return rowErr(i, err)
		}
	}
	return nil
}

func recordExists(tx *gorm.DB, model interface{}, id int64) (bool, error) {
	err := tx.Select("id").First(model, "id = ?", id).Error
	if err == nil {
		return true, nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	return false, err
}

// requireRecord enforces the fatal-on-missing-reference rule.
func requireRecord(tx *gorm.DB, model interface{}, id int64, kind string) error {
	exists, err := recordExists(tx, model, id)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("referenced %s %d not found", kind, id)
	}
	return nil
}

func parseInt64(s string) (int64, error) {
	return strconv.ParseInt(s, 10, 64)
}

// rowErr numbers rows as they appear in the file, header included.
func rowErr(i int, err error) error {
	return fmt.Errorf("row %d: %w", i+2, err)
}
