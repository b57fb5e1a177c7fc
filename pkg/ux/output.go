// Copyright (C) 2025 SkillSphere Learning (opensource@skillsphere.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package ux provides terminal output styling for the SkillSphere CLI.
package ux

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// SkillSphere color palette - spring greens and chalkboard slate
var (
	ColorGreenBright  = lipgloss.Color("#5BE38A") // highlights, success
	ColorGreenPrimary = lipgloss.Color("#3CC96E") // main brand color
	ColorGreenDeep    = lipgloss.Color("#2A9D57") // borders, accents
	ColorChalk        = lipgloss.Color("#3A4A44") // muted text
	ColorSlateDark    = lipgloss.Color("#16241D") // deep backgrounds

	ColorSuccess = lipgloss.Color("#5BE38A")
	ColorWarning = lipgloss.Color("#F4D03F")
	ColorError   = lipgloss.Color("#E74C3C")
)

// Styles provides pre-configured lipgloss styles.
var Styles = struct {
	Title     lipgloss.Style
	Subtitle  lipgloss.Style
	Bold      lipgloss.Style
	Muted     lipgloss.Style
	Success   lipgloss.Style
	Warning   lipgloss.Style
	Error     lipgloss.Style
	Highlight lipgloss.Style
	Box       lipgloss.Style
	ErrorBox  lipgloss.Style
}{
	Title:     lipgloss.NewStyle().Bold(true).Foreground(ColorGreenBright),
	Subtitle:  lipgloss.NewStyle().Foreground(ColorGreenPrimary),
	Bold:      lipgloss.NewStyle().Bold(true),
	Muted:     lipgloss.NewStyle().Foreground(ColorChalk),
	Success:   lipgloss.NewStyle().Foreground(ColorSuccess),
	Warning:   lipgloss.NewStyle().Foreground(ColorWarning),
	Error:     lipgloss.NewStyle().Foreground(ColorError),
	Highlight: lipgloss.NewStyle().Foreground(ColorGreenBright).Bold(true),
	Box: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorGreenDeep).
		Padding(0, 1),
	ErrorBox: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorError).
		Padding(0, 1),
}

// Icon provides themed status icons.
type Icon string

const (
	IconSuccess  Icon = "✓"
	IconWarning  Icon = "⚠"
	IconError    Icon = "✗"
	IconPending  Icon = "○"
	IconArrow    Icon = "→"
	IconBullet   Icon = "•"
	IconQuestion Icon = "?"
	IconSprout   Icon = "🌱"
	IconBook     Icon = "📚"
)

// Render returns the icon with its styling applied.
func (i Icon) Render() string {
	switch i {
	case IconSuccess:
		return Styles.Success.Render(string(i))
	case IconWarning:
		return Styles.Warning.Render(string(i))
	case IconError:
		return Styles.Error.Render(string(i))
	case IconPending:
		return Styles.Muted.Render(string(i))
	default:
		return string(i)
	}
}

func init() {
	// No color when piped. lipgloss detects this too, but being explicit
	// keeps output stable under test harnesses.
	if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		lipgloss.SetColorProfile(0)
	}
}

// Successf prints a success line to stdout.
func Successf(format string, args ...any) {
	fmt.Printf("%s %s\n", IconSuccess.Render(), fmt.Sprintf(format, args...))
}

// Warnf prints a warning line to stdout.
func Warnf(format string, args ...any) {
	fmt.Printf("%s %s\n", IconWarning.Render(), fmt.Sprintf(format, args...))
}

// Errorf prints an error line to stderr.
func Errorf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "%s %s\n", IconError.Render(), fmt.Sprintf(format, args...))
}

// Infof prints a plain line to stdout.
func Infof(format string, args ...any) {
	fmt.Printf("%s %s\n", IconArrow.Render(), fmt.Sprintf(format, args...))
}

// Titlef prints a styled section title.
func Titlef(format string, args ...any) {
	fmt.Println(Styles.Title.Render(fmt.Sprintf(format, args...)))
}

// Confirm asks a yes/no question on the given reader (stdin in the CLI,
// a buffer in tests) and returns true only for an explicit yes.
// Destructive commands must call this before issuing the request.
func Confirm(r io.Reader, prompt string) bool {
	fmt.Printf("%s %s [y/N]: ", IconQuestion.Render(), prompt)
	scanner := bufio.NewScanner(r)
	if !scanner.Scan() {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(scanner.Text()))
	return answer == "y" || answer == "yes"
}
