package updatecheck

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/amonks/remindme/version"
)

// StdioPrompter asks on a terminal whether to download a new build and, if
// the user agrees, prints the download link.
type StdioPrompter struct {
	In  io.Reader
	Out io.Writer
}

// OfferDownload implements DownloadPrompter.
func (p StdioPrompter) OfferDownload(ctx context.Context, record version.Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	fmt.Fprintf(p.Out, "New Build Available\nA new build (%s) is available. Would you like to download it now? [y/n]: ", record.Version)

	line, err := bufio.NewReader(p.In).ReadString('\n')
	if err != nil && line == "" {
		return fmt.Errorf("read answer: %w", err)
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		if !version.IsRealDownloadURL(record.DownloadURL) {
			fmt.Fprintln(p.Out, "Download URL not available. Please try again later.")
			return nil
		}
		fmt.Fprintf(p.Out, "Download it from %s\n", record.DownloadURL)
	default:
		fmt.Fprintln(p.Out, "Later, then.")
	}
	return nil
}
