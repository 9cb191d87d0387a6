package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/gokatarajesh/triviago/internal/question"
	"github.com/gokatarajesh/triviago/internal/quiz"
)

// Output formats accepted by --output.
const (
	formatText = "text"
	formatJSON = "json"
	formatYAML = "yaml"
)

func validFormat(f string) error {
	switch f {
	case formatText, formatJSON, formatYAML:
		return nil
	}
	return fmt.Errorf("unknown output format %q (want text, json or yaml)", f)
}

func encode(w io.Writer, format string, v any) error {
	switch format {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case formatYAML:
		enc := yaml.NewEncoder(w)
		defer enc.Close()
		return enc.Encode(v)
	}
	return fmt.Errorf("unknown output format %q", format)
}

func renderCategories(w io.Writer, format string, cats []question.Category) error {
	if format != formatText {
		return encode(w, format, cats)
	}
	for _, c := range cats {
		fmt.Fprintf(w, "%4d  %s\n", c.ID, c.Name)
	}
	return nil
}

func renderResult(w io.Writer, format string, res quiz.Result) error {
	if format != formatText {
		return encode(w, format, res)
	}
	fmt.Fprintln(w, "Quiz complete!")
	fmt.Fprintf(w, "Score:      %d/%d\n", res.Score, res.TotalQuestions)
	fmt.Fprintf(w, "Correct:    %d\n", res.TotalCorrect)
	fmt.Fprintf(w, "Incorrect:  %d\n", res.TotalIncorrect)
	fmt.Fprintf(w, "Answered:   %d\n", res.TotalAnswered)
	fmt.Fprintf(w, "Time left:  %s\n", clock(res.TimeLeft))
	return nil
}

func renderQuestion(w io.Writer, s *quiz.Session) {
	q := s.Current()
	fmt.Fprintf(w, "\nQuestion %d of %d (%s)  %s left\n", s.Index()+1, s.Total(), q.Difficulty, clock(s.TimeLeft()))
	fmt.Fprintln(w, q.Question)
	selected, _ := s.Selected()
	for i, opt := range q.Options {
		mark := " "
		if opt == selected {
			mark = "*"
		}
		fmt.Fprintf(w, " %s %d) %s\n", mark, i+1, opt)
	}
}

// clock formats seconds as m:ss.
func clock(seconds int) string {
	seconds = max(seconds, 0)
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}
