// Package paapi is a thin Amazon Product Advertising API 5.0 client scoped
// to the two operations the pipeline needs: GetItems by ASIN/ISBN and
// SearchItems by keywords. Responses are normalized to lookup.Item before
// they leave this package.
package paapi
