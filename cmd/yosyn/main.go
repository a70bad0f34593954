package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/adetobi/yosyn/pkg/dictionary"
	"github.com/adetobi/yosyn/pkg/lookup"
	"github.com/adetobi/yosyn/pkg/semantic"
)

const (
	codeErrorArgs = iota + 1
	codeInternalError
)

func exitf(code int, format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, format, args...)
	os.Exit(code)
}

func newSearcher(dictPath, indexPath, baseURL, model string) (lookup.Searcher, error) {
	if indexPath != "" {
		index, err := semantic.OpenExisting(indexPath, zap.NewNop())
		if err != nil {
			return nil, err
		}
		resolved, err := semantic.ResolveModel(index, model)
		if err != nil {
			index.Close()
			return nil, err
		}
		embedder := semantic.NewOllama(nil, &semantic.OllamaConfig{
			BaseURL: baseURL,
			Model:   resolved,
		})
		return semantic.NewSearcher(index, embedder), nil
	}

	var paths []string
	if dictPath != "" {
		paths = []string{dictPath}
	}
	dict := dictionary.LoadFirst(paths, zap.NewNop())
	fmt.Printf("Dictionary loaded: %d entries (%s)\n", dict.Len(), dict.SizeClass())
	return lookup.NewDict(dict), nil
}

func main() {
	dictPath := flag.String("dictionary", "", "path to the dictionary JSON file")
	indexPath := flag.String("index", "", "semantic index built by yosyndex; replaces lexical lookup")
	baseURL := flag.String("ollama", "", "embedding server URL (with -index)")
	model := flag.String("model", "", "embedding model name (with -index)")
	query := flag.String("query", "", "single query to run instead of interactive mode")
	maxResults := flag.Int("n", lookup.DefaultMaxResults, "maximum number of results")
	flag.Parse()

	searcher, err := newSearcher(*dictPath, *indexPath, *baseURL, *model)
	if err != nil {
		exitf(codeInternalError, "can not initialize search: %s\n", err)
	}
	ctx := context.Background()
	defer searcher.Close(ctx)

	if *query != "" {
		results, err := searcher.Search(ctx, *query, *maxResults)
		if err != nil {
			exitf(codeInternalError, "can not search %q: %s\n", *query, err)
		}
		displayResults(results)
		return
	}

	interactive(ctx, searcher, *maxResults)
}

var quitWords = map[string]struct{}{
	"q":    {},
	"quit": {},
	"exit": {},
}

func interactive(ctx context.Context, searcher lookup.Searcher, maxResults int) {
	fmt.Println("\nYorùbá Synonym Finder")
	fmt.Println(strings.Repeat("=", 60))
	fmt.Println("Type 'q' or 'quit' to exit.")

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("\nEnter a Yoruba word to find synonyms: ")
		if !scanner.Scan() {
			fmt.Println()
			return
		}
		input := strings.TrimSpace(scanner.Text())
		if _, quit := quitWords[strings.ToLower(input)]; quit {
			fmt.Println("Goodbye!")
			return
		}
		if input == "" {
			fmt.Println("Please enter a word.")
			continue
		}
		results, err := searcher.Search(ctx, input, maxResults)
		if err != nil {
			fmt.Printf("Error: %s\n", err)
			continue
		}
		displayResults(results)
	}
}

func displayResults(results []lookup.Result) {
	if len(results) == 0 {
		fmt.Println("No results found.")
		return
	}
	fmt.Println("\n" + strings.Repeat("=", 60))
	for _, result := range results {
		entry := result.Entry
		fmt.Printf("Rank %d (similarity: %.4f)\n", result.Rank, result.Similarity)
		fmt.Printf("Headword: %s (%s)\n", entry.Headword, entry.POS)
		fmt.Printf("Synonyms: %s\n", strings.Join(entry.Synonyms, ", "))
		if entry.Definition != "" {
			fmt.Printf("Definition: %s\n", entry.Definition)
		}
		if entry.Example != nil {
			fmt.Printf("Example (Yoruba): %s\n", entry.Example.Yoruba)
			fmt.Printf("Example (English): %s\n", entry.Example.English)
		}
		fmt.Println(strings.Repeat("-", 60))
	}
}
