// Package similarity scores how closely OCR output matches a candidate page.
//
// Text is tokenized on whitespace after Unicode NFKC normalization and case
// folding, with leading and trailing punctuation stripped from each token so
// OCR noise around quotes and ellipses does not dominate the distance. Scores
// are normalized Levenshtein similarities in [0, 1] over space-joined token
// windows.
//
// Matcher implements progressive window matching: a short prefix comparison
// rejects most pages cheaply, and only plausible pages are compared over
// windows that grow until either text is exhausted. Growing the window
// separates pages that share an opening, such as repeated chapter headers.
package similarity
