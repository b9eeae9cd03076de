package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"medai.local/assistant/internal/classifier"
)

const predictionsSchema = `
    CREATE TABLE IF NOT EXISTS predictions (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        pregnancies REAL,
        glucose REAL,
        bp REAL,
        skin REAL,
        insulin REAL,
        bmi REAL,
        dpf REAL,
        age REAL,
        diagnosis TEXT,
        confidence REAL,
        timestamp DATETIME DEFAULT CURRENT_TIMESTAMP
    );
    `

type SQLitePredictionStore struct {
	db  *sql.DB
	now func() time.Time
}

// NewSQLitePredictionStore opens (and if needed creates) the predictions database.
func NewSQLitePredictionStore(path string) (*SQLitePredictionStore, error) {
	db, err := openSQLite(path, predictionsSchema)
	if err != nil {
		return nil, fmt.Errorf("predictions store: %w", err)
	}
	return &SQLitePredictionStore{db: db, now: time.Now}, nil
}

func (s *SQLitePredictionStore) Close() error {
	return s.db.Close()
}

func (s *SQLitePredictionStore) Append(ctx context.Context, f classifier.FeatureVector, diagnosis string, confidence float64) error {
	_, err := s.db.ExecContext(ctx, `
        INSERT INTO predictions (pregnancies, glucose, bp, skin, insulin, bmi, dpf, age, diagnosis, confidence, timestamp)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		f[classifier.Pregnancies], f[classifier.Glucose], f[classifier.BloodPressure], f[classifier.SkinThickness],
		f[classifier.Insulin], f[classifier.BMI], f[classifier.DiabetesPedigreeFunction], f[classifier.Age],
		diagnosis, confidence, s.now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert prediction: %w", err)
	}
	return nil
}

func (s *SQLitePredictionStore) ListRecent(ctx context.Context, limit int) ([]PredictionRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
        SELECT id, pregnancies, glucose, bp, skin, insulin, bmi, dpf, age, diagnosis, confidence, timestamp
        FROM predictions
        ORDER BY timestamp DESC, id DESC
        LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query predictions: %w", err)
	}
	defer rows.Close()

	records := []PredictionRecord{}
	for rows.Next() {
		var r PredictionRecord
		f := &r.Features
		if err := rows.Scan(&r.ID,
			&f[classifier.Pregnancies], &f[classifier.Glucose], &f[classifier.BloodPressure], &f[classifier.SkinThickness],
			&f[classifier.Insulin], &f[classifier.BMI], &f[classifier.DiabetesPedigreeFunction], &f[classifier.Age],
			&r.Diagnosis, &r.Confidence, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan prediction row: %w", err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate predictions: %w", err)
	}
	return records, nil
}
