package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/growthjournal/internal/models"
)

// GetSimpleText prints a prompt to w and reads a single line of input from reader.
// The trailing newline is trimmed. If EOF occurs after some input was read,
// the partial line is returned.
//
// Example prompt format:
//
//	Prompt text
//	> _
func GetSimpleText(reader *bufio.Reader, prompt string, w io.Writer) (string, error) {
	if _, err := fmt.Fprint(w, prompt+"\n> "); err != nil {
		return "", err
	}
	line, err := reader.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && len(line) > 0 {
			return strings.TrimSpace(line), nil
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// GetMultiline prints a prompt to w and reads lines until an empty one. The
// lines are joined with '\n'.
func GetMultiline(reader *bufio.Reader, prompt string, w io.Writer) (string, error) {
	if _, err := fmt.Fprint(w, prompt+"\n(press Enter on an empty line to finish)\n"); err != nil {
		return "", err
	}

	var lines []string
	for {
		line, err := reader.ReadString('\n')
		line = strings.TrimRight(line, "\r\n")
		if line == "" {
			break
		}
		lines = append(lines, line)
		if err != nil {
			break
		}
	}

	return strings.TrimSpace(strings.Join(lines, "\n")), nil
}

// GetDate reads a YYYY-MM-DD date. An empty answer means today.
func GetDate(reader *bufio.Reader, prompt string, w io.Writer, today time.Time) (models.Date, error) {
	s, err := GetSimpleText(reader, prompt+" (YYYY-MM-DD, empty for today)", w)
	if err != nil {
		return models.Date{}, err
	}
	if s == "" {
		return models.DateOf(today), nil
	}
	return models.ParseDate(s)
}

// GetOptionalFloat reads a number; an empty answer yields nil.
func GetOptionalFloat(reader *bufio.Reader, prompt string, w io.Writer) (*float64, error) {
	s, err := GetSimpleText(reader, prompt+" (empty to skip)", w)
	if err != nil || s == "" {
		return nil, err
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
	if err != nil || !models.Finite(v) {
		return nil, fmt.Errorf("not a number: %q", s)
	}
	return &v, nil
}

// GetChoice reads one of options, case-insensitively, and returns it in
// the case given in options.
func GetChoice(reader *bufio.Reader, prompt string, w io.Writer, options []string) (string, error) {
	s, err := GetSimpleText(reader, fmt.Sprintf("%s [%s]", prompt, strings.Join(options, "|")), w)
	if err != nil {
		return "", err
	}
	i := slices.IndexFunc(options, func(o string) bool { return strings.EqualFold(o, s) })
	if i < 0 {
		return "", fmt.Errorf("expected one of %s, got %q", strings.Join(options, ", "), s)
	}
	return options[i], nil
}

// GetList reads a comma separated list, dropping blanks.
func GetList(reader *bufio.Reader, prompt string, w io.Writer) ([]string, error) {
	s, err := GetSimpleText(reader, prompt+" (comma separated, empty for none)", w)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out, nil
}
