package nitro

import (
	"context"
	"errors"
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/bodgit/nitro/ncer"
	"github.com/bodgit/nitro/ncgr"
	"github.com/bodgit/nitro/nclr"
	"github.com/bodgit/nitro/nscr"
)

func (n *Nitro) findFiles(ctx context.Context, base string) (<-chan string, <-chan error, error) {
	out := make(chan string)
	errc := make(chan error, 1)
	go func() {
		defer close(out)
		defer close(errc)
		errc <- filepath.Walk(base, func(file string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}

			// Ignore any hidden files or directories, otherwise we end up fighting with things like Spotlight, etc.
			if info.Name()[0] == '.' {
				if info.Mode().IsDir() {
					return filepath.SkipDir
				}
				return nil
			}

			// Ignore anything that isn't a normal file
			if !info.Mode().IsRegular() {
				return nil
			}

			switch strings.ToLower(filepath.Ext(file)) {
			case ".nclr", ".ncgr", ".ncer", ".nscr":
			default:
				return nil
			}

			select {
			case out <- file:
			case <-ctx.Done():
				return errors.New("walk cancelled")
			}

			return nil
		})
	}()
	return out, errc, nil
}

func (n *Nitro) assetWorker(ctx context.Context, in <-chan string) (<-chan error, error) {
	errc := make(chan error, 1)
	go func() {
		defer close(errc)
		for file := range in {
			asset, err := n.examine(file)
			if err != nil {
				// A file that fails to decode is noted and skipped
				// rather than aborting the whole scan.
				n.logger.Printf("skipping %q: %v\n", file, err)
				continue
			}

			if err := n.db.Store(asset); err != nil {
				errc <- err
				return
			}
		}
	}()
	return errc, nil
}

// examine decodes a single Nitro file and summarizes it as an Asset record.
func (n *Nitro) examine(file string) (*Asset, error) {
	b, err := ioutil.ReadFile(file)
	if err != nil {
		return nil, err
	}

	asset := &Asset{
		Path:     file,
		Checksum: Checksum(b),
	}

	switch strings.ToLower(filepath.Ext(file)) {
	case ".nclr":
		var p nclr.NCLR
		if err := p.UnmarshalBinary(b); err != nil {
			return nil, err
		}
		md := p.Metadata()
		asset.Format = nclr.Extension
		asset.Version = uint16(md.Version)
		asset.Detail = fmt.Sprintf("%s, %d colors", md.TextureFormat, len(p.Palette()))
	case ".ncgr":
		var g ncgr.NCGR
		if err := g.UnmarshalBinary(b); err != nil {
			return nil, err
		}
		md := g.Metadata()
		asset.Format = ncgr.Extension
		asset.Version = uint16(md.Version)
		asset.Detail = fmt.Sprintf("%s, %s mapping", md.TextureFormat, md.MappingMode)
	case ".ncer":
		var c ncer.NCER
		if err := c.UnmarshalBinary(b); err != nil {
			return nil, err
		}
		asset.Format = ncer.Extension
		asset.Version = uint16(c.Version)
		asset.Detail = fmt.Sprintf("%d cells, %s mapping", len(c.Cells), c.MappingMode)
		asset.Labels = c.Labels
	case ".nscr":
		var s nscr.NSCR
		if err := s.UnmarshalBinary(b); err != nil {
			return nil, err
		}
		asset.Format = nscr.Extension
		asset.Version = uint16(s.Version())
		asset.Detail = fmt.Sprintf("%s, %d entries, %d tiles wide", s.TextureFormat(), len(s.Entries()), s.WidthInTiles())
	default:
		return nil, fmt.Errorf("nitro: unrecognized extension on %q", file)
	}

	return asset, nil
}

func waitForPipeline(errs ...<-chan error) error {
	errc := mergeErrors(errs...)
	for err := range errc {
		if err != nil {
			return err
		}
	}
	return nil
}

func mergeErrors(cs ...<-chan error) <-chan error {
	var wg sync.WaitGroup
	out := make(chan error, len(cs))
	wg.Add(len(cs))
	for _, c := range cs {
		go func(c <-chan error) {
			for n := range c {
				out <- n
			}
			wg.Done()
		}(c)
	}
	go func() {
		wg.Wait()
		close(out)
	}()
	return out
}

// Scan walks path looking for Nitro graphics files, decoding each one and
// recording it in the asset database. Decoding is embarrassingly parallel so
// several workers run at once.
func (n *Nitro) Scan(path string) error {
	dir, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	ctx, cancelFunc := context.WithCancel(context.Background())
	defer cancelFunc()

	var errcList []<-chan error

	files, errc, err := n.findFiles(ctx, dir)
	if err != nil {
		return err
	}
	errcList = append(errcList, errc)

	for i := 0; i < 10; i++ {
		errc, err := n.assetWorker(ctx, files)
		if err != nil {
			return err
		}
		errcList = append(errcList, errc)
	}

	return waitForPipeline(errcList...)
}
