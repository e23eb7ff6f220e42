package domain

import (
	"bufio"
	"io"
	"strconv"
	"strings"
)

// WriteConcatList renders the plan in the ffmpeg concat demuxer format:
//
//	file '/recordings/1.mkv'
//	inpoint 1.5700000000000003
//	file '/recordings/2.mkv'
//
// The inpoint directive follows the file line of the partial segment.
func (p Plan) WriteConcatList(w io.Writer) error {
	bw := bufio.NewWriter(w)
	for _, s := range p.Segments {
		bw.WriteString("file '")
		bw.WriteString(quoteConcatPath(s.Path))
		bw.WriteString("'\n")
		if s.Partial {
			bw.WriteString("inpoint ")
			bw.WriteString(FormatSeconds(s.Inpoint))
			bw.WriteByte('\n')
		}
	}
	return bw.Flush()
}

// FormatSeconds formats a seek offset without rounding and without exponent
// notation, which the concat demuxer does not accept.
func FormatSeconds(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// quoteConcatPath escapes single quotes for use inside a quoted concat path.
func quoteConcatPath(p string) string {
	return strings.ReplaceAll(p, "'", `'\''`)
}
