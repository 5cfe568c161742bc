// Package baseline persists verification reports in SQLite so that later
// runs can be compared against a recorded reference tuple.
package baseline

import (
	"database/sql"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/stellardyn/torusbench"
)

// ErrNoBaseline is returned when no record exists for the requested label.
var ErrNoBaseline = errors.New("baseline: no recorded run for label")

// timestampLayout is fixed-width so that lexicographic ordering of the
// created_at column matches chronological ordering.
const timestampLayout = "2006-01-02T15:04:05.000000000Z"

// Store wraps a SQLite database of recorded verification runs.
type Store struct {
	conn *sqlx.DB
}

// Record is one persisted verification report. The metric columns follow the
// fixed diagnostic tuple order of torusbench.Report.
type Record struct {
	ID        string `db:"id"`
	Label     string `db:"label"`
	CreatedAt string `db:"created_at"`
	Pass      bool   `db:"pass"`

	AvgJr    float64 `db:"avg_jr"`
	DispJr   float64 `db:"disp_jr"`
	AvgJz    float64 `db:"avg_jz"`
	DispJz   float64 `db:"disp_jz"`
	AvgJphi  float64 `db:"avg_jphi"`
	DispJphi float64 `db:"disp_jphi"`

	FreqR   float64 `db:"freq_r"`
	FreqZ   float64 `db:"freq_z"`
	FreqPhi float64 `db:"freq_phi"`

	DispThetaR   float64 `db:"disp_theta_r"`
	DispThetaZ   float64 `db:"disp_theta_z"`
	DispThetaPhi float64 `db:"disp_theta_phi"`

	Scatter     float64 `db:"scatter"`
	ScatterNorm float64 `db:"scatter_norm"`
}

// Tuple returns the recorded metrics in the same fixed order as
// torusbench.Report.Tuple.
func (r Record) Tuple() []float64 {
	return []float64{
		r.AvgJr, r.DispJr,
		r.AvgJz, r.DispJz,
		r.AvgJphi, r.DispJphi,
		r.FreqR, r.FreqZ, r.FreqPhi,
		r.DispThetaR, r.DispThetaZ, r.DispThetaPhi,
		r.Scatter, r.ScatterNorm,
	}
}

// Diff is the outcome of comparing a fresh report against a recorded
// baseline.
type Diff struct {
	Baseline     Record
	VerdictMatch bool    // recorded and fresh verdicts agree
	MaxDelta     float64 // largest absolute metric deviation
	Within       bool    // MaxDelta <= tolerance and verdicts agree
}

// Open opens or creates the baseline database at path.
func Open(path string) (*Store, error) {
	conn, err := sqlx.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open baseline db: %w", err)
	}
	s := &Store{conn: conn}
	if err := s.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate baseline db: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.conn.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		label TEXT NOT NULL,
		created_at TEXT NOT NULL,
		pass INTEGER NOT NULL,
		avg_jr REAL NOT NULL,
		disp_jr REAL NOT NULL,
		avg_jz REAL NOT NULL,
		disp_jz REAL NOT NULL,
		avg_jphi REAL NOT NULL,
		disp_jphi REAL NOT NULL,
		freq_r REAL NOT NULL,
		freq_z REAL NOT NULL,
		freq_phi REAL NOT NULL,
		disp_theta_r REAL NOT NULL,
		disp_theta_z REAL NOT NULL,
		disp_theta_phi REAL NOT NULL,
		scatter REAL NOT NULL,
		scatter_norm REAL NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_runs_label ON runs(label, created_at);
	`
	_, err := s.conn.Exec(schema)
	return err
}

// Put records a report under the given label and returns the stored record.
func (s *Store) Put(label string, rep torusbench.Report) (Record, error) {
	rec := Record{
		ID:           uuid.NewString(),
		Label:        label,
		CreatedAt:    time.Now().UTC().Format(timestampLayout),
		Pass:         rep.Pass,
		AvgJr:        rep.Actions.Avg.Jr,
		DispJr:       rep.Actions.Disp.Jr,
		AvgJz:        rep.Actions.Avg.Jz,
		DispJz:       rep.Actions.Disp.Jz,
		AvgJphi:      rep.Actions.Avg.Jphi,
		DispJphi:     rep.Actions.Disp.Jphi,
		FreqR:        rep.Angles.Freq.Omegar,
		FreqZ:        rep.Angles.Freq.Omegaz,
		FreqPhi:      rep.Angles.Freq.Omegaphi,
		DispThetaR:   rep.Angles.DispR,
		DispThetaZ:   rep.Angles.DispZ,
		DispThetaPhi: rep.Angles.DispPhi,
		Scatter:      rep.Scatter,
		ScatterNorm:  rep.ScatterNorm,
	}
	_, err := s.conn.NamedExec(`
		INSERT INTO runs (id, label, created_at, pass,
			avg_jr, disp_jr, avg_jz, disp_jz, avg_jphi, disp_jphi,
			freq_r, freq_z, freq_phi,
			disp_theta_r, disp_theta_z, disp_theta_phi,
			scatter, scatter_norm)
		VALUES (:id, :label, :created_at, :pass,
			:avg_jr, :disp_jr, :avg_jz, :disp_jz, :avg_jphi, :disp_jphi,
			:freq_r, :freq_z, :freq_phi,
			:disp_theta_r, :disp_theta_z, :disp_theta_phi,
			:scatter, :scatter_norm)`, rec)
	if err != nil {
		return Record{}, fmt.Errorf("record baseline %q: %w", label, err)
	}
	return rec, nil
}

// Latest returns the most recently recorded run for the label.
func (s *Store) Latest(label string) (Record, error) {
	var rec Record
	err := s.conn.Get(&rec,
		`SELECT * FROM runs WHERE label = ? ORDER BY created_at DESC LIMIT 1`, label)
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, fmt.Errorf("%w: %q", ErrNoBaseline, label)
	}
	if err != nil {
		return Record{}, fmt.Errorf("load baseline %q: %w", label, err)
	}
	return rec, nil
}

// Compare checks a fresh report against the latest baseline for the label.
// Every metric of the fixed diagnostic tuple must agree within tol, and the
// verdicts must match.
func (s *Store) Compare(label string, rep torusbench.Report, tol float64) (Diff, error) {
	rec, err := s.Latest(label)
	if err != nil {
		return Diff{}, err
	}
	diff := Diff{
		Baseline:     rec,
		VerdictMatch: rec.Pass == rep.Pass,
	}
	want := rec.Tuple()
	got := rep.Tuple()
	for i := range want {
		if d := math.Abs(want[i] - got[i]); d > diff.MaxDelta {
			diff.MaxDelta = d
		}
	}
	diff.Within = diff.VerdictMatch && diff.MaxDelta <= tol
	return diff, nil
}
