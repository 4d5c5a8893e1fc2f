// Package calahan provides access to real-time and historical financial
// market data from the Yahoo! Finance API.
//
// The entry point is YFinance, which manages the session (cookies and the
// anti-CSRF "crumb") transparently and exposes quote retrieval, symbol
// search and autocomplete.
//
// Library verbosity is controlled with SetLogLevel; by default only
// warnings and errors are emitted so embedding applications keep a clean
// terminal.
package calahan
