// Package report persists tree snapshots as JSON metadata plus a CSV table
// of rows, one directory per snapshot.
package report

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/san-kum/airframe/internal/component"
)

var ErrBadRow = errors.New("report: malformed row")

const (
	metadataFile = "metadata.json"
	rowsFile     = "rows.csv"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type Metadata struct {
	ID         string    `json:"id"`
	Label      string    `json:"label"`
	Timestamp  time.Time `json:"timestamp"`
	ModID      uint64    `json:"mod_id"`
	Components int       `json:"components"`
	Mass       float64   `json:"mass"`
	CGX        float64   `json:"cg_x"`
	CD         float64   `json:"cd"`
}

var header = []string{
	"id", "parent", "depth", "name", "kind", "instances", "length",
	"axial_method", "axial_offset", "x", "absolute_x", "mass", "section_mass",
	"cg_x", "cd", "mass_owner", "cg_owner", "cd_owner", "preset",
}

// Save writes snap under a new id derived from label.
func (s *Store) Save(label string, snap component.Snapshot) (string, error) {
	id := fmt.Sprintf("%s_%s", label, uuid.NewString()[:8])
	dir := filepath.Join(s.baseDir, id)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}

	meta := Metadata{
		ID:         id,
		Label:      label,
		Timestamp:  time.Now(),
		ModID:      snap.ModID,
		Components: len(snap.Rows),
	}
	if len(snap.Rows) > 0 {
		root := snap.Rows[0]
		meta.Mass, meta.CGX, meta.CD = root.SectionMass, root.CGX, root.CD
	}

	if err := saveJSON(filepath.Join(dir, metadataFile), meta); err != nil {
		return "", err
	}
	if err := writeRows(filepath.Join(dir, rowsFile), snap.Rows); err != nil {
		return "", err
	}
	return id, nil
}

func saveJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeRows(path string, rows []component.Row) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return err
	}
	for _, r := range rows {
		if err := w.Write(encodeRow(r)); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func ftoa(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }

func encodeRow(r component.Row) []string {
	parent := ""
	if r.Parent != uuid.Nil {
		parent = r.Parent.String()
	}
	return []string{
		r.ID.String(), parent, strconv.Itoa(r.Depth), r.Name, r.Kind,
		strconv.Itoa(r.Instances), ftoa(r.Length), r.Method, ftoa(r.Offset),
		ftoa(r.X), ftoa(r.AbsoluteX), ftoa(r.Mass), ftoa(r.SectionMass),
		ftoa(r.CGX), ftoa(r.CD), r.MassOwner, r.CGOwner, r.CDOwner, r.Preset,
	}
}

func decodeRow(rec []string) (component.Row, error) {
	var r component.Row
	if len(rec) != len(header) {
		return r, fmt.Errorf("%w: %d fields, want %d", ErrBadRow, len(rec), len(header))
	}
	var err error
	parseF := func(s string) float64 {
		if err != nil {
			return 0
		}
		var v float64
		v, err = strconv.ParseFloat(s, 64)
		return v
	}
	parseI := func(s string) int {
		if err != nil {
			return 0
		}
		var v int
		v, err = strconv.Atoi(s)
		return v
	}

	if r.ID, err = uuid.Parse(rec[0]); err != nil {
		return r, fmt.Errorf("%w: id: %v", ErrBadRow, err)
	}
	if rec[1] != "" {
		if r.Parent, err = uuid.Parse(rec[1]); err != nil {
			return r, fmt.Errorf("%w: parent: %v", ErrBadRow, err)
		}
	}
	r.Depth = parseI(rec[2])
	r.Name, r.Kind = rec[3], rec[4]
	r.Instances = parseI(rec[5])
	r.Length = parseF(rec[6])
	r.Method = rec[7]
	r.Offset = parseF(rec[8])
	r.X = parseF(rec[9])
	r.AbsoluteX = parseF(rec[10])
	r.Mass = parseF(rec[11])
	r.SectionMass = parseF(rec[12])
	r.CGX = parseF(rec[13])
	r.CD = parseF(rec[14])
	r.MassOwner, r.CGOwner, r.CDOwner, r.Preset = rec[15], rec[16], rec[17], rec[18]
	if err != nil {
		return r, fmt.Errorf("%w: %v", ErrBadRow, err)
	}
	return r, nil
}

// List returns the metadata of every stored snapshot, oldest first.
func (s *Store) List() ([]Metadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []Metadata{}, nil
		}
		return nil, err
	}

	out := make([]Metadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		out = append(out, *meta)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp.Before(out[j].Timestamp) })
	return out, nil
}

func (s *Store) Load(id string) (*Metadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, id, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta Metadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// LoadRows reads the rows of a stored snapshot back.
func (s *Store) LoadRows(id string) ([]component.Row, error) {
	f, err := os.Open(filepath.Join(s.baseDir, id, rowsFile))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return []component.Row{}, nil
	}

	rows := make([]component.Row, 0, len(records)-1)
	for i, rec := range records[1:] {
		r, err := decodeRow(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		rows = append(rows, r)
	}
	return rows, nil
}
