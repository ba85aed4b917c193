/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package command

import (
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Prefix starts every formatted message.
const Prefix = "[GANGWARS] "

// Formatter renders chat messages by outcome.
type Formatter interface {
	Success(message string) string
	Fail(message string) string
	Notice(message string) string
}

// Plain formats messages as uncoloured text.
type Plain struct{}

func (Plain) Success(message string) string { return Prefix + message }
func (Plain) Fail(message string) string    { return Prefix + message }
func (Plain) Notice(message string) string  { return Prefix + message }

// Styled colours messages for a terminal: a blue prefix followed by a green,
// red or gold message.
type Styled struct {
	prefix  lipgloss.Style
	success lipgloss.Style
	fail    lipgloss.Style
	notice  lipgloss.Style
}

// NewStyled creates a formatter for output written to w. Colours are
// dropped when w is not a terminal.
func NewStyled(w io.Writer) Styled {
	r := lipgloss.NewRenderer(w)
	return Styled{
		prefix:  r.NewStyle().Foreground(lipgloss.Color("12")),
		success: r.NewStyle().Foreground(lipgloss.Color("10")),
		fail:    r.NewStyle().Foreground(lipgloss.Color("9")),
		notice:  r.NewStyle().Foreground(lipgloss.Color("214")),
	}
}

func (s Styled) Success(message string) string { return s.render(s.success, message) }
func (s Styled) Fail(message string) string    { return s.render(s.fail, message) }
func (s Styled) Notice(message string) string  { return s.render(s.notice, message) }

func (s Styled) render(style lipgloss.Style, message string) string {
	return s.prefix.Render(strings.TrimSuffix(Prefix, " ")) + " " + style.Render(message)
}

// joinAnd joins items as "a, b and c".
func joinAnd(items []string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	default:
		return strings.Join(items[:len(items)-1], ", ") + " and " + items[len(items)-1]
	}
}
