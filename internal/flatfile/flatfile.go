// Package flatfile reads and writes the pantry list as comma-separated lines:
//
//	id,name,category,quantity,YYYY-MM-DD
//
// There is no header and no escaping. A name or category containing a comma
// produces a line that Read rejects. Items without an expiration date are
// written with an empty last field.
package flatfile

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/kjk/common/atomicfile"
	"github.com/vbonduro/pantryinv/internal/domain"
)

const fieldCount = 5

// ErrMalformedLine is wrapped by every parse failure returned from Read.
var ErrMalformedLine = errors.New("malformed line")

func Write(w io.Writer, items []*domain.Item) error {
	bw := bufio.NewWriter(w)
	for _, item := range items {
		expires := ""
		if item.ExpiresOn != nil {
			expires = item.ExpiresOn.Format(domain.DateLayout)
		}
		if _, err := fmt.Fprintf(bw, "%d,%s,%s,%d,%s\n", item.ID, item.Name, item.Category, item.Quantity, expires); err != nil {
			return fmt.Errorf("failed to write item %d: %w", item.ID, err)
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("failed to flush items: %w", err)
	}
	return nil
}

// Read parses every line of r. The first bad line aborts the whole read and
// no items are returned.
func Read(r io.Reader) ([]*domain.Item, error) {
	scanner := bufio.NewScanner(r)
	items := make([]*domain.Item, 0)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), "\r")
		if line == "" {
			continue
		}
		item, err := parseLine(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		items = append(items, item)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read items: %w", err)
	}
	return items, nil
}

func parseLine(line string) (*domain.Item, error) {
	fields := strings.Split(line, ",")
	if len(fields) != fieldCount {
		return nil, fmt.Errorf("%w: expected %d fields, got %d", ErrMalformedLine, fieldCount, len(fields))
	}

	id, err := strconv.ParseInt(fields[0], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid id %q", ErrMalformedLine, fields[0])
	}
	qty, err := strconv.Atoi(fields[3])
	if err != nil {
		return nil, fmt.Errorf("%w: invalid quantity %q", ErrMalformedLine, fields[3])
	}
	if qty < 0 {
		return nil, fmt.Errorf("%w: negative quantity %d", ErrMalformedLine, qty)
	}

	item := &domain.Item{
		ID:       id,
		Name:     fields[1],
		Category: fields[2],
		Quantity: qty,
	}
	if fields[4] != "" {
		d, err := domain.ParseDate(fields[4])
		if err != nil {
			return nil, fmt.Errorf("%w: invalid expiration date %q", ErrMalformedLine, fields[4])
		}
		item.ExpiresOn = &d
	}
	return item, nil
}

// Save replaces the file at path with items. The previous contents survive
// until the new file is complete.
func Save(items []*domain.Item, path string) error {
	f, err := atomicfile.New(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer f.RemoveIfNotClosed()
	if err := Write(f, items); err != nil {
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close file: %w", err)
	}
	return nil
}

func Load(path string) ([]*domain.Item, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer func() { _ = f.Close() }()
	return Read(f)
}
