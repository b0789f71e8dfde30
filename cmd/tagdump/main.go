// Dev tool to dump parsed tags and stream info for audio files.
package main

import (
	"flag"
	"log"
	"os"
	"strings"
	"time"

	"github.com/llehouerou/sleeve/internal/fsys"
	"github.com/llehouerou/sleeve/internal/tags"
)

func main() {
	withLyrics := flag.Bool("lyrics", false, "print embedded lyric text line by line")
	flag.Parse()
	if flag.NArg() == 0 {
		log.Fatalf("usage: tagdump [-lyrics] <file-or-dir>...")
	}

	files, err := collect(flag.Args())
	if err != nil {
		log.Fatalf("Failed to collect files: %v", err)
	}
	log.Printf("Dumping %d files", len(files))

	for _, path := range files {
		dump(path, *withLyrics)
	}
}

// collect expands directory arguments into their audio files, recursively.
func collect(args []string) ([]string, error) {
	svc := fsys.New()
	var files []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			files = append(files, arg)
			continue
		}
		sub, err := svc.ListAllFilesRecursive(arg)
		if err != nil {
			return nil, err
		}
		files = append(files, sub...)
	}
	return files, nil
}

func dump(path string, withLyrics bool) {
	log.Printf("%s", path)

	t, err := tags.Read(path)
	if err != nil {
		log.Printf("  ERROR: %v", err)
		return
	}
	log.Printf("  %s - %s (%s, track %d/%d)", t.Artist, t.Title, t.Album, t.TrackNumber, t.TotalTracks)
	if t.AlbumArtist != "" && t.AlbumArtist != t.Artist {
		log.Printf("  album artist: %s", t.AlbumArtist)
	}
	if t.Genre != "" || t.Date != "" {
		log.Printf("  genre: %s  date: %s", t.Genre, t.Date)
	}
	for _, pic := range t.Pictures {
		log.Printf("  picture: %s %s (%d bytes)", pic.Description, pic.MIME, len(pic.Data))
	}
	if t.Lyrics != "" {
		log.Printf("  lyrics: %d lines", strings.Count(t.Lyrics, "\n")+1)
		if withLyrics {
			for _, line := range strings.Split(t.Lyrics, "\n") {
				log.Printf("    %s", line)
			}
		}
	}

	audio, err := tags.ReadAudioInfo(path)
	if err != nil {
		log.Printf("  audio: %v", err)
		return
	}
	log.Printf("  audio: %s %d Hz, %s", audio.Format, audio.SampleRate, audio.Duration.Round(time.Millisecond))
}
