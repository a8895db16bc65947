package sqlite

import (
	"fmt"
	"strconv"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/html2md"
)

// CacheKey identifies a conversion request: the same document converted
// with the same options and budget always maps to the same key.
func CacheKey(req *html2md.ConversionRequest) string {
	h := xxhash.New()
	for _, part := range []string{
		req.Source.BaseURL,
		req.Source.HTML,
		strconv.FormatBool(req.Options.StripTables),
		strconv.FormatBool(req.Options.StripLinks),
		strconv.FormatBool(req.Options.StripImages),
		strconv.Itoa(req.MaxTokens),
	} {
		_, _ = h.WriteString(part)
		_, _ = h.Write([]byte{0})
	}
	return fmt.Sprintf("%016x", h.Sum64())
}
