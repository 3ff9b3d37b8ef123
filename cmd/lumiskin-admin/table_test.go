// LumiSkin - Skincare Analysis and Recommendation API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lumiskin

package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestTableRender(t *testing.T) {
	tbl := newTable("ID", "EMAIL")
	tbl.addRow("u1", "alice@example.com")
	tbl.addRow("user-2") // short rows are padded

	var buf bytes.Buffer
	if err := tbl.render(&buf); err != nil {
		t.Fatal(err)
	}
	out := buf.String()

	if strings.Contains(out, "\x1b[") {
		t.Errorf("escape codes written to a non-terminal:\n%q", out)
	}

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("got %d lines, want header, rule and 2 rows:\n%s", len(lines), out)
	}
	if !strings.Contains(lines[0], "ID") || !strings.Contains(lines[0], "EMAIL") {
		t.Errorf("header = %q", lines[0])
	}
	if strings.Trim(lines[1], "-") != "" {
		t.Errorf("rule = %q", lines[1])
	}
	width := lipgloss.Width(lines[0])
	for i, line := range lines {
		if got := lipgloss.Width(line); got != width {
			t.Errorf("line %d width = %d, want %d: %q", i, got, width, line)
		}
	}
	if idx := strings.Index(lines[2], "|"); idx != strings.Index(lines[3], "|") || idx < 0 {
		t.Errorf("columns not aligned:\n%s", out)
	}
}
