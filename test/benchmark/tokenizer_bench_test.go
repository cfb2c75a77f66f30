package benchmark

import (
	"fmt"
	"strings"
	"testing"

	"search100/internal/search/tokenizer"
)

var sampleTexts = map[string]string{
	"short": "The quick brown fox jumps over the lazy dog",
	"medium": `Full text search engines process queries across a corpus of
        documents to find the most relevant matches. Each document is
        tokenized, stemmed, and stop words are removed to normalize text
        into searchable terms. Results are ranked using a combination of
        term frequency and inverse document frequency across the entire
        corpus. This approach enables fast query latency even with
        thousands of documents on a single machine.`,
	"long": strings.Repeat(`Information retrieval systems form the backbone of local search
        tools. These systems combine tokenization, stemming, and stop word
        removal to normalize text into searchable terms. The inverted index maps each
        term to the documents containing it, along with positional information for phrase
        queries. TF-IDF ranking considers term frequency and inverse document frequency
        to produce relevance scores across a corpus of plain-text documents. `, 20),
}

func BenchmarkTokenize(b *testing.B) {
	for name, text := range sampleTexts {
		b.Run(name, func(b *testing.B) {
			b.ReportAllocs()
			b.SetBytes(int64(len(text)))
			for i := 0; i < b.N; i++ {
				tokens := tokenizer.Tokenize(text)
				_ = tokens
			}
		})
	}
}

func BenchmarkTokenizeParallel(b *testing.B) {
	text := sampleTexts["medium"]
	b.ReportAllocs()
	b.SetBytes(int64(len(text)))
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			tokens := tokenizer.Tokenize(text)
			_ = tokens
		}
	})
}

func BenchmarkStemming(b *testing.B) {
	words := []string{
		"running", "searching", "indexing", "tokenization",
		"normalization", "efficiently", "processing",
		"relevance", "documents", "scalability",
	}
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		for _, w := range words {
			tokens := tokenizer.Tokenize(w)
			_ = tokens
		}
	}
}

func BenchmarkTokenizeVaryingSize(b *testing.B) {
	sizes := []int{10, 100, 500, 1000, 5000}
	baseWord := "search engine indexing ranking documents "
	for _, size := range sizes {
		text := strings.Repeat(baseWord, size/len(baseWord)+1)[:size]
		b.Run(fmt.Sprintf("bytes_%d", size), func(b *testing.B) {
			b.ReportAllocs()
			b.SetBytes(int64(len(text)))
			for i := 0; i < b.N; i++ {
				tokens := tokenizer.Tokenize(text)
				_ = tokens
			}
		})
	}
}
