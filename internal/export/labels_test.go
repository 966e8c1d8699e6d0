package export

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/piwi3910/rackmap/internal/model"
)

func TestExportLabels_CreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "labels.pdf")

	if err := ExportLabels(path, []model.BayReport{buildTestReport()}); err != nil {
		t.Fatalf("ExportLabels returned error: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("labels PDF was not created: %v", err)
	}
	if info.Size() == 0 {
		t.Fatal("labels PDF is empty")
	}
}

func TestExportLabels_NoContainers(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.pdf")

	err := ExportLabels(path, []model.BayReport{{Building: "BLDG 22", Bay: "3E"}})
	if err == nil {
		t.Fatal("expected error when no containers exist")
	}
}

func TestCollectLabelInfos(t *testing.T) {
	other := buildTestReport()
	other.Building = "BLDG 7"

	labels := CollectLabelInfos([]model.BayReport{buildTestReport(), other})

	if len(labels) != 6 {
		t.Fatalf("expected 6 labels, got %d", len(labels))
	}
	if labels[0].Bin != "3E01A1" || labels[0].Building != "BLDG 22" || labels[0].Bay != "3E" {
		t.Errorf("unexpected first label: %+v", labels[0])
	}
	if labels[1].Slot != "C" || labels[1].Level != 2 {
		t.Errorf("unexpected slot label: %+v", labels[1])
	}
	if labels[3].Building != "BLDG 7" {
		t.Errorf("expected second report labels after the first, got %+v", labels[3])
	}
}

func TestLabelInfo_QRPayload(t *testing.T) {
	data, err := json.Marshal(LabelInfo{Bin: "3E01A1", Building: "BLDG 22", Bay: "3E", Row: "01", Section: "A", Level: 1})
	if err != nil {
		t.Fatalf("failed to marshal: %v", err)
	}

	s := string(data)
	for _, key := range []string{`"bin":"3E01A1"`, `"building":"BLDG 22"`, `"row":"01"`, `"level":1`} {
		if !strings.Contains(s, key) {
			t.Errorf("payload %s missing %s", s, key)
		}
	}
	if strings.Contains(s, "slot") {
		t.Errorf("empty slot should be omitted: %s", s)
	}
}

func TestExportLabels_ManyContainers(t *testing.T) {
	path := filepath.Join(t.TempDir(), "many_labels.pdf")

	// 35 labels spill onto a second page
	containers := make([]model.Container, 35)
	for i := range containers {
		containers[i] = model.Container{
			ID:      fmt.Sprintf("3E%02dA1", i+1),
			Row:     fmt.Sprintf("%02d", i+1),
			Section: "A",
			Level:   1,
		}
	}

	report := model.BayReport{Building: "BLDG 22", Bay: "3E", Containers: containers}
	if err := ExportLabels(path, []model.BayReport{report}); err != nil {
		t.Fatalf("ExportLabels returned error: %v", err)
	}
}
