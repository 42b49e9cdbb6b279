// Package normalize turns raw storefront listings into canonical offers.
//
// All schema knowledge lives here: each storefront has one field map, so
// supporting a new storefront means adding one entry, not touching the
// pipeline. Validation is forgiving by design; a listing is rejected only
// when no usable title can be extracted. Unparseable prices and deadlines
// become absent fields, where an absent deadline means "unknown end date",
// not "no end date".
package normalize
