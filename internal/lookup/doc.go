// Package lookup implements clients for the external information sources the
// agent's tools draw on.
//
// Available clients:
//
//   - SerpAPI: Google web search, requires an API key.
//   - Arxiv: arXiv paper metadata via the public Atom export API, no key.
//   - Wikipedia: article search + plain-text extracts via the MediaWiki API, no key.
//
// Every client takes a context per call and uses an HTTP client with a
// bounded timeout. Result shaping (top-k, character caps) happens in the
// tools layer, not here.
package lookup
