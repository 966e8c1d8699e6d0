// Package mockdata generates repeatable mock inventory records for the 3D
// viewer from the bin codes of a real location sheet.
package mockdata

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand/v2"
	"os"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/piwi3910/rackmap/internal/bincode"
)

// ErrNoBins is returned when items are requested without any bins to place
// them in.
var ErrNoBins = errors.New("no bins found after parsing/normalizing")

// ErrNegativeCount is returned when a negative number of items is requested.
var ErrNegativeCount = errors.New("item count must not be negative")

// Item is one mock inventory record. Field names follow the inventory API
// the viewer consumes; every value is a string.
type Item struct {
	DocumentNumber  string `json:"indocn"` // transfer order number
	Fullness        string `json:"lofull"`
	AvailableQty    string `json:"inavlq"`
	Depth           string `json:"itemdp"`
	Height          string `json:"itemht"`
	Width           string `json:"itemwd"`
	Location        string `json:"lolocn"`
	SKU             string `json:"skskun"`
	Part            string `json:"skpart"`
	InventoryNumber string `json:"innumb"`
	ImageURL        string `json:"imageUrl"`
	Status          string `json:"status"`
}

const alphanum = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

var fullnessSteps = []int{0, 25, 50, 75, 100}

// Generator produces items from its own seeded source, so two generators
// with the same seed yield identical output.
type Generator struct {
	src *rand.ChaCha8
	rng *rand.Rand
}

// NewGenerator returns a generator seeded with seed.
func NewGenerator(seed uint64) *Generator {
	var key [32]byte
	binary.LittleEndian.PutUint64(key[:], seed)
	src := rand.NewChaCha8(key)
	return &Generator{src: src, rng: rand.New(src)}
}

func (g *Generator) base62(n int) string {
	var b strings.Builder
	b.Grow(n)
	for range n {
		b.WriteByte(alphanum[g.rng.IntN(len(alphanum))])
	}
	return b.String()
}

// between returns a uniform integer in [lo, hi].
func (g *Generator) between(lo, hi int) int {
	return lo + g.rng.IntN(hi-lo+1)
}

func (g *Generator) dim(lo, hi int) string {
	return strconv.Itoa(g.between(lo, hi))
}

// Items generates n items, cycling through bins when n exceeds len(bins).
func (g *Generator) Items(bins []string, n int) ([]Item, error) {
	if n < 0 {
		return nil, fmt.Errorf("%w: %d", ErrNegativeCount, n)
	}
	if len(bins) == 0 {
		return nil, ErrNoBins
	}

	items := make([]Item, 0, n)
	for i := range n {
		doc, err := uuid.NewRandomFromReader(g.src)
		if err != nil {
			return nil, fmt.Errorf("failed to generate document number: %w", err)
		}
		items = append(items, Item{
			DocumentNumber:  doc.String(),
			Fullness:        strconv.Itoa(fullnessSteps[g.rng.IntN(len(fullnessSteps))]),
			AvailableQty:    strconv.Itoa(g.between(0, 200)),
			Depth:           g.dim(6, 60),
			Height:          g.dim(6, 72),
			Width:           g.dim(6, 60),
			Location:        bins[i%len(bins)],
			SKU:             g.base62(16),
			Part:            fmt.Sprintf("P%07d", g.between(0, 9999999)),
			InventoryNumber: fmt.Sprintf("I%07d", g.between(0, 9999999)),
			Status:          "success",
		})
	}
	return items, nil
}

// ReadBins reads bin codes from one column of a workbook, rows 1 through
// maxRow. Values are normalised with bincode.Normalize, header words are
// skipped and duplicates dropped in first-seen order. An empty sheet name
// means the active sheet.
func ReadBins(path, sheet, column string, maxRow int) ([]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open Excel file: %w", err)
	}
	defer f.Close()

	if sheet == "" {
		sheet = f.GetSheetName(f.GetActiveSheetIndex())
	}
	if idx, err := f.GetSheetIndex(sheet); err != nil || idx < 0 {
		return nil, fmt.Errorf("sheet '%s' not found", sheet)
	}

	col := strings.ToUpper(strings.TrimSpace(column))
	seen := make(map[string]bool)
	var bins []string
	for r := 1; r <= maxRow; r++ {
		cell, err := excelize.JoinCellName(col, r)
		if err != nil {
			return nil, fmt.Errorf("invalid column %q: %w", column, err)
		}
		v, err := f.GetCellValue(sheet, cell)
		if err != nil {
			return nil, fmt.Errorf("cannot read %s: %w", cell, err)
		}
		bin, ok := bincode.Normalize(v)
		if !ok || seen[bin] {
			continue
		}
		seen[bin] = true
		bins = append(bins, bin)
	}
	return bins, nil
}

// WriteJSON writes items as an indented JSON array.
func WriteJSON(path string, items []Item) error {
	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
