package export

import (
	"os"
	"path/filepath"
	"testing"
)

func TestCSVAppenderWritesHeaderOnlyOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "evm.csv")
	a := NewCSVAppender(path)
	header := []string{"Timestamp", "EV", "AC"}

	if err := a.Append(header, []string{"t1", "100.00", "50.00"}); err != nil {
		t.Fatalf("first append: %v", err)
	}
	if err := a.Append(header, []string{"t2", "120.00", "70.00"}); err != nil {
		t.Fatalf("second append: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	want := "Timestamp;EV;AC\nt1;100.00;50.00\nt2;120.00;70.00\n"
	if string(data) != want {
		t.Errorf("got %q, want %q", data, want)
	}
}

func TestCSVAppenderAppendRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "velocity.csv")
	err := NewCSVAppender(path).AppendRows(
		[]string{"Sprint", "Hours"},
		[][]string{{"Sprint 1", "20.00"}, {"Sprint 2", "30.00"}},
	)
	if err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	want := "Sprint;Hours\nSprint 1;20.00\nSprint 2;30.00\n"
	if string(data) != want {
		t.Errorf("got %q, want %q", data, want)
	}
}

func TestWriteCSVRewritesFromScratch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "efficiency.csv")
	header := []string{"Sprint", "Percent"}

	if err := WriteCSV(path, header, [][]string{{"Sprint 1", "80.00"}, {"Sprint 2", "60.00"}}); err != nil {
		t.Fatal(err)
	}
	if err := WriteCSV(path, header, [][]string{{"Sprint 1", "81.00"}}); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	want := "Sprint;Percent\nSprint 1;81.00\n"
	if string(data) != want {
		t.Errorf("got %q, want %q", data, want)
	}
}
