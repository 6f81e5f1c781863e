// Package tagstream extracts structured fields from incrementally produced
// LLM output and decides, chunk by chunk, what portion is safe to surface
// to a consumer.
//
// Models that are asked for structured output wrap each field in XML-style
// markers (<text>...</text>). When that output arrives as a stream, the
// consumer-facing text has to be separated from the markup while chunks are
// still in flight, and mid-response truncation has to be detected before
// the whole response has finished generating. tagstream provides a family
// of extractors for this, from a trivial passthrough up to a multi-field,
// validation-code-checking state machine.
//
// # Quick Start: Single Field
//
//	ex := tagstream.NewSingleTag("text")
//	for chunk := range modelChunks {
//	    out, err := ex.Push(chunk)
//	    if err != nil {
//	        return err
//	    }
//	    fmt.Print(out) // only content between <text> and </text>
//	}
//	fmt.Print(ex.Flush()) // release margin-withheld content
//
// # Quick Start: Validated Multi-Field Extraction
//
// The ValidatingExtractor checks validation codes the producer echoes
// around each field, so truncated or corrupted responses are caught before
// their content reaches the consumer:
//
//	acc := tagstream.NewAccumulator()
//	ex := tagstream.NewValidating(tagstream.ValidatingConfig{
//	    Level: 1,
//	    Fields: []tagstream.Field{
//	        {Name: "thinking", Description: "Reasoning, never shown."},
//	        {Name: "text", Description: "The visible reply.", Required: true},
//	    },
//	    StreamFields: []string{"text"},
//	    Codes:        map[string]string{"text": "abc123"},
//	    OnChunk:      acc.Collect,
//	})
//
//	for chunk := range modelChunks {
//	    if _, err := ex.Push(chunk); err != nil {
//	        return err
//	    }
//	}
//	ex.Flush()
//
// Rich consumers additionally set an OnEvent callback and dispatch on the
// concrete event type ([FieldValidatedEvent], [ErrorEvent], [ChunkEvent],
// [RetryStartEvent], [RetryContextEvent], [CompleteEvent]).
//
// # Retries
//
// One extractor instance lives for one logical exchange, across retries.
// When the caller decides to retry a bad response it calls
// [ValidatingExtractor.SignalRetry] (which separates stale output from the
// retried response), rebuilds the prompt ([ValidatingExtractor.Diagnose]
// and [ValidatingExtractor.ValidatedFields] help there) and then calls
// Reset on the same instance. Fields that already validated survive the
// reset and are not emitted twice.
//
// # Concurrency
//
// Extractors are single-threaded and callback-driven: the chunk source
// calls Push synchronously as chunks arrive. There are no internal locks
// and no blocking operations. Cancellation is cooperative, polled from the
// configured context at the top of each Push. Reentrant Push calls from
// inside a callback are a caller error.
package tagstream
