// Package download locates and fetches SDK artifacts.
//
// Artifact URLs follow the LunarG layout
//
//	{base}/sdk/download/{version}/{platform}/{filename}
//
// Every download is preceded by a HEAD probe so a missing version is
// reported as a *NotFoundError before any bytes are transferred.
package download
