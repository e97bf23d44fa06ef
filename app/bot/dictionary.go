package bot

import (
	"bufio"
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"os"
	"strings"
)

//go:embed data/dictionary.txt
var defaultDictionary []byte

// loadDictionary reads allow-candidate words, one per line, from the given
// file, or from the built-in list if the file name is empty. Blank lines and
// #-comments are skipped. Returns the words and the source name for logging.
func loadDictionary(fileName string) (words []string, src string, err error) {
	var reader io.Reader = bytes.NewReader(defaultDictionary)
	src = "built-in list"
	if fileName != "" {
		f, e := os.Open(fileName) //nolint:gosec // the path is operator-provided config
		if e != nil {
			return nil, "", fmt.Errorf("failed to open %s: %w", fileName, e)
		}
		defer f.Close()
		reader = f
		src = fileName
	}

	scanner := bufio.NewScanner(reader)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		words = append(words, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, "", fmt.Errorf("failed to read %s: %w", src, err)
	}
	return words, src, nil
}
