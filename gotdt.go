// Package gotdt translates long-form technical documents.
//
// A document goes through a fixed pipeline: code blocks, inline code and
// literal markup are replaced by placeholders, the text is split into
// paragraph-aligned chunks, each chunk is sent to a translation Provider,
// the chunks are joined back, the placeholders are restored, and known
// technical terms are rewritten to their canonical target-language form.
//
// Basic usage:
//
//	import (
//	    "context"
//	    "github.com/ZaguanLabs/gotdt"
//	    "github.com/ZaguanLabs/gotdt/cache"
//	    "github.com/ZaguanLabs/gotdt/provider"
//	    "github.com/ZaguanLabs/gotdt/terms"
//	)
//
//	func main() {
//	    p, err := provider.NewAzureProvider(provider.AzureConfig{
//	        Key:      os.Getenv("AZURE_TRANSLATOR_KEY"),
//	        Endpoint: os.Getenv("AZURE_TRANSLATOR_ENDPOINT"),
//	        Region:   os.Getenv("AZURE_TRANSLATOR_REGION"),
//	    })
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//
//	    mapper, err := terms.NewMapper(terms.NewFileStore("data/technical_terms.json"))
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//
//	    pipeline, err := gotdt.NewPipeline(p,
//	        gotdt.WithMapper(mapper),
//	        gotdt.WithCache(cache.NewInMemoryCache(3600)),
//	    )
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//
//	    result, err := pipeline.TranslateDocument(context.Background(), gotdt.Document{
//	        Text:               "Use `go test` to run the api tests.",
//	        SourceLang:         "en",
//	        TargetLang:         "pt",
//	        PreserveFormatting: true,
//	    })
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    fmt.Println(result.TranslatedText)
//	}
package gotdt
