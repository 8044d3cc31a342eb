package flatfile

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"

	"github.com/poiesic/digitalpulse/core"
	"github.com/poiesic/digitalpulse/storage"
)

func (s *Store) load() error {
	topics, err := readRecords(filepath.Join(s.dir, TopicsFile))
	if err != nil {
		return err
	}
	opinions, err := readRecords(filepath.Join(s.dir, OpinionsFile))
	if err != nil {
		return err
	}
	conclusions, err := readRecords(filepath.Join(s.dir, ConclusionsFile))
	if err != nil {
		return err
	}

	s.topics = make([]*core.Topic, len(topics))
	for i, r := range topics {
		s.topics[i] = &core.Topic{Record: r}
	}
	s.opinions = make([]*core.Opinion, len(opinions))
	for i, r := range opinions {
		s.opinions[i] = &core.Opinion{Record: r}
	}
	s.conclusions = make([]*core.Conclusion, len(conclusions))
	for i, r := range conclusions {
		s.conclusions[i] = &core.Conclusion{Record: r}
	}
	return nil
}

// save rewrites all three files. Must be called with mu held.
func (s *Store) save() error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("%w: %w", core.ErrPersistence, err)
	}

	topics := make([]core.Record, len(s.topics))
	for i, t := range s.topics {
		topics[i] = t.Record
	}
	opinions := make([]core.Record, len(s.opinions))
	for i, o := range s.opinions {
		opinions[i] = o.Record
	}
	conclusions := make([]core.Record, len(s.conclusions))
	for i, c := range s.conclusions {
		conclusions[i] = c.Record
	}

	files := []struct {
		name    string
		records []core.Record
	}{
		{TopicsFile, topics},
		{OpinionsFile, opinions},
		{ConclusionsFile, conclusions},
	}
	for _, f := range files {
		if err := writeRecords(filepath.Join(s.dir, f.name), f.records); err != nil {
			s.logger.Error("failed to save records", "file", f.name, "err", err)
			return fmt.Errorf("%w: writing %s: %w", core.ErrPersistence, f.name, err)
		}
	}
	return nil
}

func readRecords(path string) ([]core.Record, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = len(storage.Columns)

	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	if !slices.Equal(header, storage.Columns) {
		return nil, fmt.Errorf("%s: %w: %v", filepath.Base(path), storage.ErrSchemaMismatch, header)
	}

	var records []core.Record
	for {
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
		}
		records = append(records, storage.FromRow(row))
	}
	return records, nil
}

func writeRecords(path string, records []core.Record) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	w := csv.NewWriter(tmp)
	if err = w.Write(storage.Columns); err != nil {
		return err
	}
	for _, r := range records {
		if err = w.Write(storage.ToRow(r)); err != nil {
			return err
		}
	}
	w.Flush()
	if err = w.Error(); err != nil {
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
