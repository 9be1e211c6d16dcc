package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/mj1618/menulister/internal/model"
	"gopkg.in/yaml.v3"
)

func sampleBar() model.MenuBar {
	return model.MenuBar{
		PID: 1234,
		TS:  1707500000,
		Items: []model.MenuItem{
			{Title: "(no title)", Placeholder: true, Children: []model.MenuItem{
				{Title: "File", Children: []model.MenuItem{{Title: "New Window"}}},
			}},
		},
	}
}

func TestPrintYAML(t *testing.T) {
	var buf bytes.Buffer
	if err := PrintYAML(&buf, sampleBar()); err != nil {
		t.Fatal(err)
	}
	out := buf.String()

	if strings.Count(out, "\n") <= 1 {
		t.Errorf("YAML output should be multi-line, got:\n%s", out)
	}

	var decoded model.MenuBar
	if err := yaml.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid YAML: %v", err)
	}
	if decoded.PID != 1234 {
		t.Errorf("pid: got %d, want 1234", decoded.PID)
	}
	if got := decoded.Items[0].Children[0].Children[0].Title; got != "New Window" {
		t.Errorf("nested title: got %q, want %q", got, "New Window")
	}
}

func TestPrintJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := PrintJSON(&buf, sampleBar()); err != nil {
		t.Fatal(err)
	}
	var decoded model.MenuBar
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if !decoded.Items[0].Placeholder {
		t.Error("placeholder flag should survive encoding")
	}
}

func TestPrintJSON_NoHTMLEscape(t *testing.T) {
	var buf bytes.Buffer
	if err := PrintJSON(&buf, model.MenuItem{Title: "Find & Replace <All>"}); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "Find & Replace <All>") {
		t.Errorf("HTML characters should not be escaped, got %s", buf.String())
	}
}

func TestEncode_RejectsText(t *testing.T) {
	if err := Encode(&bytes.Buffer{}, FormatText, sampleBar()); err == nil {
		t.Error("text is not a structured format")
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input string
		want  Format
	}{
		{"", FormatText},
		{"text", FormatText},
		{"YAML", FormatYAML},
		{"json", FormatJSON},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.input)
		if err != nil {
			t.Errorf("ParseFormat(%q): %v", tt.input, err)
		}
		if got != tt.want {
			t.Errorf("ParseFormat(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
	if _, err := ParseFormat("xml"); err == nil {
		t.Error("ParseFormat(\"xml\") should fail")
	}
}

func TestPrintHeader(t *testing.T) {
	var buf bytes.Buffer
	PrintHeader(&buf, "Menus for frontmost application")
	want := "\n=======================================\n Menus for frontmost application\n=======================================\n"
	if buf.String() != want {
		t.Errorf("header mismatch:\ngot  %q\nwant %q", buf.String(), want)
	}
}

func TestWarnf(t *testing.T) {
	var buf bytes.Buffer
	Warnf(&buf, "Could not get menu bar. Error: %d", -25212)
	if got := buf.String(); got != "[!] Could not get menu bar. Error: -25212\n" {
		t.Errorf("got %q", got)
	}
}
