package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"gopkg.in/yaml.v3"

	"github.com/bft-labs/replay/internal/domain"
	"github.com/bft-labs/replay/pkg/replay"
)

type planDoc struct {
	Requested float64      `yaml:"requested"`
	Covered   float64      `yaml:"covered"`
	Segments  []segmentDoc `yaml:"segments"`
}

type segmentDoc struct {
	Seq      int     `yaml:"seq"`
	Path     string  `yaml:"path"`
	Duration float64 `yaml:"duration"`
	Inpoint  float64 `yaml:"inpoint,omitempty"`
	Size     string  `yaml:"size,omitempty"`
}

func newPlanDoc(seconds float64, plan replay.Plan) planDoc {
	doc := planDoc{Requested: seconds, Covered: plan.Covered()}
	for _, seg := range plan.Segments {
		sd := segmentDoc{Seq: seg.Seq, Path: seg.Path, Duration: seg.Duration, Inpoint: seg.Inpoint}
		if info, err := os.Stat(seg.Path); err == nil {
			sd.Size = humanize.Bytes(uint64(info.Size()))
		}
		doc.Segments = append(doc.Segments, sd)
	}
	return doc
}

// writePlan renders a plan as a table or as YAML.
func writePlan(w io.Writer, format string, seconds float64, plan replay.Plan) error {
	doc := newPlanDoc(seconds, plan)
	if format == "yaml" {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return err
		}
		return enc.Close()
	}

	if plan.Empty() {
		_, err := fmt.Fprintln(w, "nothing to play")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SEQ\tDURATION\tINPOINT\tSIZE\tPATH")
	for _, s := range doc.Segments {
		fmt.Fprintf(tw, "%d\t%ss\t%ss\t%s\t%s\n", s.Seq,
			domain.FormatSeconds(s.Duration), domain.FormatSeconds(s.Inpoint), s.Size, s.Path)
	}
	fmt.Fprintf(tw, "\ncovered %ss of %ss\n", domain.FormatSeconds(doc.Covered), domain.FormatSeconds(doc.Requested))
	return tw.Flush()
}
