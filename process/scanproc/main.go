// Command scanproc backfills ingredient extraction for scan rows that have
// none, either over the existing upload directory or in watch mode where it
// picks up images as they land. Ingest normally extracts inline; this tool
// covers scans that failed mid-request or predate the extraction seam.
package main

import (
	"encoding/json"
	"flag"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"nutrilens/models"
	"nutrilens/pkg/extract"

	"github.com/disintegration/imaging"
	"github.com/fsnotify/fsnotify"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var db *gorm.DB

var verbose bool

func main() {
	dirFlag := flag.String("dir", "uploads/scans", "directory holding stored scan images")
	watch := flag.Bool("watch", false, "watch directory for new files")
	flag.BoolVar(&verbose, "verbose", false, "verbose per-file logging")
	flag.Parse()

	db = mustInitDBFromEnv()

	processPending(*dirFlag)

	if *watch {
		if err := watchDirectory(*dirFlag); err != nil {
			log.Fatalf("watch failed: %v", err)
		}
	}
}

func mustInitDBFromEnv() *gorm.DB {
	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		log.Fatalf("DB_DSN must be set in environment to run this tool")
	}
	gdb, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	return gdb
}

// processPending runs extraction for every scan row with an empty
// ingredient list whose image file still exists.
func processPending(dir string) {
	var scans []models.Scan
	if err := db.Where("ingredients = '' OR ingredients IS NULL").Find(&scans).Error; err != nil {
		log.Fatalf("failed to list pending scans: %v", err)
	}
	log.Printf("found %d scans pending extraction", len(scans))
	for i := range scans {
		processScan(&scans[i], dir)
	}
}

func processScan(scan *models.Scan, dir string) {
	path := filepath.Join(dir, filepath.Base(scan.ImagePath))
	if _, err := os.Stat(path); err != nil {
		logV("scan %s: image missing at %s", scan.ID, path)
		return
	}
	// verify the file still decodes before extraction
	if _, err := imaging.Open(path); err != nil {
		scan.Failed = true
		scan.FailedReason = "image unreadable: " + err.Error()
		db.Save(scan)
		return
	}
	rawText, ingredients, err := extract.IngredientsFromImage(path)
	if err != nil {
		scan.Failed = true
		scan.FailedReason = err.Error()
		db.Save(scan)
		return
	}
	encoded, _ := json.Marshal(ingredients)
	scan.RawText = rawText
	scan.Ingredients = string(encoded)
	scan.Failed = false
	scan.FailedReason = ""
	if err := db.Save(scan).Error; err != nil {
		log.Printf("scan %s: save failed: %v", scan.ID, err)
		return
	}
	logV("scan %s: extracted %d ingredients", scan.ID, len(ingredients))
}

func watchDirectory(dir string) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()
	if err := w.Add(dir); err != nil {
		return err
	}
	log.Printf("Watching %s (debounced) ...", dir)

	// debounce so half-written files settle before we read them
	pending := map[string]time.Time{}
	ticker := time.NewTicker(250 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ev.Op&fsnotify.Create == fsnotify.Create {
				name := filepath.Base(ev.Name)
				if !isSupportedExt(name) {
					continue
				}
				pending[name] = time.Now()
			}
		case <-ticker.C:
			now := time.Now()
			for name, t := range pending {
				if now.Sub(t) > 300*time.Millisecond { // stable
					handleNewFile(dir, name)
					delete(pending, name)
				}
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.Printf("watch error: %v", err)
		}
	}
}

// handleNewFile links a freshly landed image back to its scan row. Stored
// images are named <scanID>.jpg, so the row lookup is direct.
func handleNewFile(dir, name string) {
	scanID := strings.TrimSuffix(name, filepath.Ext(name))
	var scan models.Scan
	if err := db.Where("id = ?", scanID).First(&scan).Error; err != nil {
		logV("no scan row for file %s", name)
		return
	}
	if scan.Ingredients != "" {
		return // already extracted inline
	}
	processScan(&scan, dir)
}

func isSupportedExt(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".png", ".jpg", ".jpeg", ".webp":
		return true
	}
	return false
}

func logV(format string, args ...any) {
	if verbose {
		log.Printf(format, args...)
	}
}
