// Package lookup defines the abstract catalog-lookup contracts the resolver
// consumes. Vendor clients (PA-API, Rakuten Books) normalize their payloads
// into the Item shape at this boundary and classify failures with the
// services sentinels, so vendor field names and HTTP details never reach the
// reconciliation core.
package lookup
