package psxtex

import (
	"bytes"
	"context"
	"errors"
	"image"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Extensions handled by the batch pipeline. These match the decoders
// registered by cmd/psxtex.
var imageExtensions = map[string]struct{}{
	".gif":  {},
	".jpeg": {},
	".jpg":  {},
	".png":  {},
	".qoi":  {},
	".webp": {},
}

// ConvertFile converts a single image file. The outputs are only created
// once the conversion has fully succeeded. clutOutput may be empty at
// 16bpp.
func (c *Converter) ConvertFile(input, imageOutput, clutOutput string) error {
	f, err := os.Open(input)
	if err != nil {
		return err
	}
	defer f.Close()

	m, _, err := image.Decode(f)
	if err != nil {
		return err
	}

	var pixels, clut bytes.Buffer

	clutOut := &clut
	if c.opts.BPP != 16 && clutOutput == "" {
		clutOut = nil
	}

	if err := Convert(&pixels, clutOut, m, c.opts); err != nil {
		return err
	}

	if err := os.WriteFile(imageOutput, pixels.Bytes(), 0666); err != nil {
		return err
	}

	if c.opts.BPP != 16 {
		if err := os.WriteFile(clutOutput, clut.Bytes(), 0666); err != nil {
			return err
		}
	}

	c.logger.Printf("Converted \"%s\" at %dbpp\n", input, c.opts.BPP)

	return nil
}

func (c *Converter) findImages(ctx context.Context, base string) (<-chan string, <-chan error, error) {
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

			if !info.Mode().IsRegular() {
				return nil
			}

			if _, ok := imageExtensions[strings.ToLower(filepath.Ext(file))]; !ok {
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

func (c *Converter) imageWorker(ctx context.Context, in <-chan string) (<-chan error, error) {
	errc := make(chan error, 1)
	go func() {
		defer close(errc)
		for file := range in {
			base := strings.TrimSuffix(file, filepath.Ext(file))

			clutOutput := ""
			if c.opts.BPP != 16 {
				clutOutput = base + ".pal"
			}

			if err := c.ConvertFile(file, base+".dat", clutOutput); err != nil {
				errc <- err
				return
			}
		}
	}()
	return errc, nil
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

// Batch walks a directory tree and converts every image file found,
// writing a .dat file (and a .pal file for indexed depths) alongside each
// source image. Conversions run concurrently; each image is independent.
func (c *Converter) Batch(path string) error {
	dir, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	ctx, cancelFunc := context.WithCancel(context.Background())
	defer cancelFunc()

	var errcList []<-chan error

	files, errc, err := c.findImages(ctx, dir)
	if err != nil {
		return err
	}
	errcList = append(errcList, errc)

	for i := 0; i < 10; i++ {
		errc, err := c.imageWorker(ctx, files)
		if err != nil {
			return err
		}
		errcList = append(errcList, errc)
	}

	return waitForPipeline(errcList...)
}
