package main

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"vela/internal/codeaction"
	"vela/internal/decl"
	"vela/internal/driver"
	"vela/internal/engines"
	"vela/internal/source"
)

type actionsFlags struct {
	unitFlags
	at     string
	format string
}

// actionReport is the serialized form of one code action.
type actionReport struct {
	Decl     string `json:"decl" yaml:"decl"`
	Kind     string `json:"kind" yaml:"kind"`
	Title    string `json:"title" yaml:"title"`
	File     string `json:"file" yaml:"file"`
	Line     uint32 `json:"line" yaml:"line"`
	Column   uint32 `json:"column" yaml:"column"`
	Position string `json:"position" yaml:"position"`
	Text     string `json:"text" yaml:"text"`
}

func newActionsCmd() *cobra.Command {
	f := &actionsFlags{}
	cmd := &cobra.Command{
		Use:   "actions [path]",
		Short: "List code actions for the declarations of a unit",
		Long:  `Check the unit and print the code actions (impl and constructor skeletons, doc templates) of every declaration, or of the one at --at file:line:col.`,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runActions(cmd, args, f)
		},
	}
	f.register(cmd)
	cmd.Flags().StringVar(&f.at, "at", "", "only the declaration around file:line:col")
	cmd.Flags().StringVar(&f.format, "format", "text", "output format (text|json|yaml)")
	return cmd
}

func runActions(cmd *cobra.Command, args []string, f *actionsFlags) error {
	switch f.format {
	case "text", "json", "yaml":
	default:
		return fmt.Errorf("unsupported format %q (must be text, json or yaml)", f.format)
	}
	timer, err := newTimer(cmd)
	if err != nil {
		return err
	}
	defer printTimings(cmd, timer)
	unit, opts, err := f.load(cmd, args, timer)
	if err != nil {
		return err
	}
	// no cache: the actions need the engines
	out, err := driver.Check(cmd.Context(), unit, opts, nil, timer)
	if err != nil {
		return err
	}
	eng := out.Result.Engines

	var refs []decl.Ref
	if f.at != "" {
		file, off, err := parseAt(eng.Files, f.at)
		if err != nil {
			return err
		}
		if r, ok := codeaction.At(eng, file, off); ok {
			refs = append(refs, r)
		}
	} else {
		for _, r := range eng.Decls.Refs() {
			if !eng.Decls.Describe(r).Specialized {
				refs = append(refs, r)
			}
		}
	}
	reports := collectActions(eng, refs)
	return writeActions(cmd.OutOrStdout(), reports, f.format)
}

func collectActions(eng *engines.Engines, refs []decl.Ref) []actionReport {
	reports := make([]actionReport, 0, len(refs))
	for _, r := range refs {
		name := eng.Decls.Describe(r).Name
		for _, a := range codeaction.ForDecl(eng, r) {
			off := a.Edit.Offset()
			lc, _ := eng.Files.Resolve(source.Span{File: a.Edit.Anchor.File, Start: off, End: off})
			reports = append(reports, actionReport{
				Decl:     name,
				Kind:     a.Kind.String(),
				Title:    a.Title,
				File:     eng.Files.Get(a.Edit.Anchor.File).Path,
				Line:     lc.Line,
				Column:   lc.Col,
				Position: a.Edit.Position.String(),
				Text:     a.Edit.Text,
			})
		}
	}
	return reports
}

func writeActions(w io.Writer, reports []actionReport, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(reports)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(reports); err != nil {
			return fmt.Errorf("failed to encode actions: %w", err)
		}
		return enc.Close()
	}
	for i, r := range reports {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "%s:%d:%d: %s (%s, %s)\n", r.File, r.Line, r.Column, r.Title, r.Kind, r.Decl)
		for _, line := range strings.Split(strings.TrimRight(r.Text, "\n"), "\n") {
			fmt.Fprintf(w, "    %s\n", line)
		}
	}
	return nil
}

// parseAt resolves "file:line:col" (1-based) against the unit's files.
func parseAt(fs *source.FileSet, at string) (source.FileID, uint32, error) {
	parts := strings.Split(at, ":")
	if len(parts) < 3 {
		return 0, 0, fmt.Errorf("invalid --at %q (expected file:line:col)", at)
	}
	path := strings.Join(parts[:len(parts)-2], ":")
	line, err := strconv.ParseUint(parts[len(parts)-2], 10, 32)
	if err != nil || line == 0 {
		return 0, 0, fmt.Errorf("invalid line in --at %q", at)
	}
	col, err := strconv.ParseUint(parts[len(parts)-1], 10, 32)
	if err != nil || col == 0 {
		return 0, 0, fmt.Errorf("invalid column in --at %q", at)
	}
	want, err := filepath.Abs(path)
	if err != nil {
		return 0, 0, err
	}
	for _, file := range fs.Files() {
		abs, err := filepath.Abs(file.Path)
		if err != nil || abs != want {
			continue
		}
		f := fs.Get(file.ID)
		return file.ID, f.Offset(source.LineCol{Line: uint32(line), Col: uint32(col)}), nil
	}
	return 0, 0, fmt.Errorf("%s is not part of the unit", path)
}
