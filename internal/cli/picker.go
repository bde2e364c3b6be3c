// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/koki-develop/go-fzf"

	"github.com/jeranaias/neuralcode/internal/model"
)

// pickProgram presents a fuzzy finder over programs. It returns "" when the
// user cancels.
func pickProgram(programs []model.Program) (string, error) {
	if len(programs) == 0 {
		return "", fmt.Errorf("no programs to choose from")
	}

	f, err := fzf.New(
		fzf.WithPrompt("Program > "),
		fzf.WithInputPosition(fzf.InputPositionTop),
		fzf.WithLimit(1),
	)
	if err != nil {
		return "", err
	}

	now := time.Now()
	idxs, err := f.Find(
		programs,
		func(i int) string {
			return programs[i].Icon + " " + programs[i].Name
		},
		fzf.WithPreviewWindow(func(i, w, h int) string {
			if i < 0 || i >= len(programs) {
				return ""
			}
			return formatProgramPreview(programs[i], now)
		}),
	)
	if err != nil {
		return "", err
	}
	if len(idxs) == 0 {
		return "", nil
	}
	return programs[idxs[0]].Name, nil
}

func formatProgramPreview(p model.Program, now time.Time) string {
	var b strings.Builder
	b.WriteString(p.Icon + " " + p.Name + "\n")
	b.WriteString(strings.Repeat("━", 30) + "\n\n")
	fmt.Fprintf(&b, "Last used: %s\n", p.RelativeTime(now))
	fmt.Fprintf(&b, "           %s\n\n", p.LastUsedAt.Format("2006-01-02 15:04"))
	b.WriteString("Loading a program starts a fresh conversation.\n")
	return b.String()
}
