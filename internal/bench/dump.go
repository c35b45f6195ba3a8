package bench

import (
	"fmt"
	"os"
)

// Dumper persists both context strings for inspection. The zero value
// writes to the system temp directory.
type Dumper struct {
	Dir string
}

// DumpPaths names the two files a dump produced.
type DumpPaths struct {
	RAG   string
	Naive string
}

// Dump writes both contexts to uniquely named files and returns their
// paths. Dumping is best effort: callers print failures as warnings and
// the report itself is never affected.
func (d *Dumper) Dump(r Report) (DumpPaths, error) {
	var paths DumpPaths

	dir := d.Dir
	if dir == "" {
		dir = os.TempDir()
	} else if err := os.MkdirAll(dir, 0o755); err != nil {
		return paths, fmt.Errorf("create dump dir: %w", err)
	}

	rag, err := writeDump(dir, "ctxbench-*-rag-context.txt", r.RAG.Text)
	if err != nil {
		return paths, err
	}
	paths.RAG = rag

	naive, err := writeDump(dir, "ctxbench-*-naive-context.txt", r.Naive.Text)
	if err != nil {
		return paths, err
	}
	paths.Naive = naive

	return paths, nil
}

func writeDump(dir, pattern, content string) (string, error) {
	f, err := os.CreateTemp(dir, pattern)
	if err != nil {
		return "", fmt.Errorf("create dump file: %w", err)
	}
	defer f.Close()

	if _, err := f.WriteString(content); err != nil {
		return "", fmt.Errorf("write %s: %w", f.Name(), err)
	}
	return f.Name(), nil
}
