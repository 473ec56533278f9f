package e2e

import (
	"context"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/abelbrown/arcade/internal/server"
	"github.com/abelbrown/arcade/internal/store"
)

// fixtureSeed is a small deterministic catalog. Twelve Zelda titles let
// paging tests cross page boundaries with a page size of 5.
const fixtureSeed = `
games:
  - id: z01
    name: Fixture Zelda One
    rating: 4.5
    release_date: 1986-02-21
    genres: [Adventure]
    platforms: [NES]
    developers: [Nintendo]
  - id: z02
    name: Fixture Zelda Two
    rating: 3.5
    release_date: 1987-01-14
    genres: [Adventure, RPG]
    platforms: [NES]
    developers: [Nintendo]
  - id: z03
    name: Fixture Zelda Three
    rating: 4.8
    release_date: 1991-11-21
    genres: Adventure
    platforms: [SNES]
    developers: [Nintendo]
  - id: z04
    name: Fixture Zelda Four
    rating: N/A
    genres: [Adventure]
    platforms: [Game Boy]
    developers: [Nintendo]
  - id: z05
    name: Fixture Zelda Five
    rating: 5
    release_date: 1998-11-21
    genres: [Adventure]
    platforms: [Nintendo 64]
    developers: [Nintendo]
  - id: z06
    name: Fixture Zelda Six
    rating: 4.2
    release_date: 2000-04-27
    genres: [Adventure, Puzzle]
    platforms: [Nintendo 64]
    developers: [Nintendo]
  - id: z07
    name: Fixture Zelda Seven
    rating: 4.0
    release_date: 2002-12-13
    genres: [Adventure]
    platforms: [GameCube]
    developers: [Nintendo]
  - id: z08
    name: Fixture Zelda Eight
    rating: 4.4
    release_date: 2006-11-19
    genres: [Adventure]
    platforms: [Wii, GameCube]
    developers: [Nintendo]
  - id: z09
    name: Fixture Zelda Nine
    rating: 3.9
    release_date: 2009-12-07
    genres: [Adventure]
    platforms: [Nintendo DS]
    developers: [Nintendo]
  - id: z10
    name: Fixture Zelda Ten
    rating: 4.1
    release_date: 2011-11-18
    genres: [Adventure]
    platforms: [Wii]
    developers: [Nintendo]
  - id: z11
    name: Fixture Zelda Eleven
    rating: 4.9
    release_date: 2017-03-03
    genres: [Adventure, RPG]
    platforms: [Nintendo Switch, Wii U]
    developers: [Nintendo]
  - id: z12
    name: Fixture Zelda Twelve
    rating: 4.6
    release_date: 2023-05-12
    genres: [Adventure]
    platforms: [Nintendo Switch]
    developers: [Nintendo]
  - id: h01
    name: Fixture Hades
    rating: 4.7
    release_date: 2020-09-17
    genres: [Action, Roguelike]
    platforms: [PC, Nintendo Switch]
    developers: [Supergiant Games]
    keywords: [greek mythology]
`

// startCatalog serves the fixture catalog from a SQLite file under a
// temp dir and returns the server.
func startCatalog(t *testing.T) *httptest.Server {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "catalog.db"))
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	items, err := store.LoadSeed(strings.NewReader(fixtureSeed))
	if err != nil {
		t.Fatalf("LoadSeed: %v", err)
	}
	if _, err := st.SaveItems(context.Background(), items); err != nil {
		t.Fatalf("SaveItems: %v", err)
	}

	srv := httptest.NewServer(server.New(st).Routes())
	t.Cleanup(srv.Close)
	return srv
}

func readSnapshot(f *os.File) string {
	if err := f.SetReadDeadline(time.Now().Add(50 * time.Millisecond)); err != nil {
		return ""
	}
	out := make([]byte, 0, 8192)
	buf := make([]byte, 4096)
	for {
		n, err := f.Read(buf)
		if n > 0 {
			out = append(out, buf[:n]...)
		}
		if err != nil {
			break
		}
	}
	return string(out)
}
