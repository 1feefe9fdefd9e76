package engine

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/ivlev/entroscan/internal/config"
	"github.com/ivlev/entroscan/internal/entropy"
	"github.com/ivlev/entroscan/internal/render"
	"github.com/ivlev/entroscan/internal/report"
	"github.com/ivlev/entroscan/internal/source"
	"github.com/ivlev/entroscan/internal/system"
)

// Project drives one scan: render every page of the source, run the entropy
// comparator on each, write the artifacts and the YAML report.
type Project struct {
	Config *config.Config
	Source source.Source
}

func NewProject(cfg *config.Config, src source.Source) *Project {
	return &Project{Config: cfg, Source: src}
}

type renderedPage struct {
	Index int
	Image image.Image
}

func (p *Project) Run() error {
	startTime := time.Now()

	pageCount := p.Source.PageCount()
	if pageCount == 0 {
		return fmt.Errorf("source contains no pages or images")
	}

	if err := os.MkdirAll(p.Config.OutputDir, 0755); err != nil {
		return err
	}

	// Size the pool against the first page; pages of one document rarely
	// differ enough to matter
	w0, h0, err := p.Source.GetPageDimensions(0)
	if err != nil {
		return fmt.Errorf("could not read page dimensions: %w", err)
	}
	workers := system.ClampWorkers(p.Config.Workers, int(w0), int(h0))

	cmp := entropy.New(p.Config.Radius, p.Config.Tolerance)
	cmp.Workers = workers
	if err := cmp.Validate(); err != nil {
		return err
	}

	log.Info().
		Str("input", p.Config.InputPath).
		Int("pages", pageCount).
		Int("radius", p.Config.Radius).
		Float64("tolerance", p.Config.Tolerance).
		Int("workers", workers).
		Msg("scan started")

	// jobs -> renderPool -> rendered -> analyzePool -> pages
	jobs := make(chan int, pageCount)
	rendered := make(chan *renderedPage, pageCount)

	pages := make([]report.Page, pageCount)
	done := make([]bool, pageCount)

	var wgRender sync.WaitGroup
	var wgAnalyze sync.WaitGroup

	// 1. Render pool (decode / rasterize)
	numRenderWorkers := workers
	if numRenderWorkers > pageCount {
		numRenderWorkers = pageCount
	}

	renderStart := time.Now()
	for w := 0; w < numRenderWorkers; w++ {
		wgRender.Add(1)
		go func() {
			defer wgRender.Done()
			for i := range jobs {
				img, err := p.Source.RenderPage(i, p.Config.DPI)
				if err != nil {
					log.Error().Err(err).Int("page", i).Msg("page render failed")
					continue
				}
				rendered <- &renderedPage{Index: i, Image: img}
			}
		}()
	}

	// 2. Analyze pool. Process parallelizes internally across rows, so two
	// pages in flight are enough to keep the artifact writers busy.
	numAnalyzeWorkers := 2
	if numAnalyzeWorkers > pageCount {
		numAnalyzeWorkers = pageCount
	}

	for w := 0; w < numAnalyzeWorkers; w++ {
		wgAnalyze.Add(1)
		go func() {
			defer wgAnalyze.Done()
			for rp := range rendered {
				page, err := p.analyzePage(cmp, rp)
				if err != nil {
					log.Error().Err(err).Int("page", rp.Index).Msg("analysis failed")
					continue
				}
				pages[rp.Index] = *page
				done[rp.Index] = true
				log.Info().
					Int("page", rp.Index+1).
					Int("total", pageCount).
					Int("matched", page.MatchedPixels).
					Float64("percent", page.MatchedPercent).
					Msg("page ready")
			}
		}()
	}

	for i := 0; i < pageCount; i++ {
		jobs <- i
	}
	close(jobs)

	wgRender.Wait()
	renderEnd := time.Now()
	close(rendered)
	wgAnalyze.Wait()
	analyzeEnd := time.Now()

	for i, ok := range done {
		if !ok {
			return fmt.Errorf("page %d was not analyzed, see log", i)
		}
	}

	reportPath := p.Config.ReportPath
	if reportPath == "" {
		reportPath = report.DefaultPath(p.Config.OutputDir)
	}
	rep := &report.Report{
		Version:     "1.0",
		GeneratedAt: time.Now().Format(time.RFC3339),
		Input:       p.Config.InputPath,
		Parameters: report.Parameters{
			Radius:    p.Config.Radius,
			Tolerance: p.Config.Tolerance,
			DPI:       p.Config.DPI,
		},
		Pages: pages,
	}
	if err := report.WriteReport(rep, reportPath); err != nil {
		return fmt.Errorf("could not write report: %w", err)
	}
	log.Info().Str("report", reportPath).Msg("scan finished")

	totalTime := time.Since(startTime)
	if p.Config.ShowStats {
		p.printStats(pageCount, totalTime, renderEnd.Sub(renderStart), analyzeEnd.Sub(renderStart))
	}

	return nil
}

// analyzePage runs the comparator on one rendered page and writes its
// artifacts.
func (p *Project) analyzePage(cmp *entropy.Comparator, rp *renderedPage) (*report.Page, error) {
	pageStart := time.Now()

	res, err := cmp.Process(rp.Image)
	if err != nil {
		return nil, err
	}

	w := res.Mask.Width
	h := res.Mask.Height
	matched := res.Mask.Count()

	artifacts := report.Artifacts{
		Original:    p.artifactPath(rp.Index, "original"),
		Highlighted: p.artifactPath(rp.Index, "highlighted"),
		Mask:        p.artifactPath(rp.Index, "mask"),
	}

	if err := render.WritePNG(res.Original, artifacts.Original); err != nil {
		return nil, err
	}
	if err := render.WritePNG(res.Highlighted, artifacts.Highlighted); err != nil {
		return nil, err
	}
	if err := render.WriteMask(res.Mask, artifacts.Mask); err != nil {
		return nil, err
	}

	if p.Config.WriteMaps {
		names := [3]string{"entropy_r", "entropy_g", "entropy_b"}
		for ch, m := range res.Maps() {
			path := p.artifactPath(rp.Index, names[ch])
			if err := render.WriteHeatmap(m, path); err != nil {
				return nil, err
			}
			artifacts.EntropyMaps = append(artifacts.EntropyMaps, path)
		}
	}

	channelNames := [3]string{"red", "green", "blue"}
	channels := make([]report.ChannelStats, 0, 3)
	for ch, m := range res.Maps() {
		channels = append(channels, report.ChannelStats{
			Channel: channelNames[ch],
			Min:     m.Min(),
			Max:     m.Max(),
			Mean:    m.Mean(),
		})
	}

	return &report.Page{
		ID:             rp.Index + 1,
		Input:          p.Source.PageName(rp.Index),
		Width:          w,
		Height:         h,
		MatchedPixels:  matched,
		MatchedPercent: 100 * float64(matched) / float64(w*h),
		Channels:       channels,
		Artifacts:      artifacts,
		ElapsedSeconds: time.Since(pageStart).Seconds(),
	}, nil
}

func (p *Project) artifactPath(index int, kind string) string {
	return filepath.Join(p.Config.OutputDir, fmt.Sprintf("page_%03d_%s.png", index+1, kind))
}

func (p *Project) printStats(pageCount int, total, renderDur, analyzeDur time.Duration) {
	pps := float64(pageCount) / total.Seconds()
	fmt.Printf(
		"--- [PERFORMANCE REPORT] ---\n"+
			"Build: %s\n"+
			"Total Time: %.2fs\n"+
			"Rendering: %.2fs\n"+
			"Analysis: %.2fs\n"+
			"Pages/s: %.2f\n"+
			"----------------------------\n",
		p.Config.BuildVersion, total.Seconds(), renderDur.Seconds(), analyzeDur.Seconds(), pps,
	)

	logEntry := fmt.Sprintf("[%s] Build: %s | Input: %s | Pages: %d | Total: %.2fs | Pages/s: %.2f\n",
		time.Now().Format("2006-01-02 15:04:05"),
		p.Config.BuildVersion,
		filepath.Base(p.Config.InputPath),
		pageCount,
		total.Seconds(),
		pps,
	)

	f, err := os.OpenFile("benchmark.log", os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err == nil {
		f.WriteString(logEntry)
		f.Close()
	} else {
		log.Warn().Err(err).Msg("could not write benchmark.log")
	}
}
