// Package mendelclient is the main package for the Mendel admin client for Go.
//
// The client keeps, for each of the Mendel entity kinds (plants, plant cultivars and plant species), a store
// holding the cached list of records, the state of the kind's creation form, and the state of the most
// recent requests. Records are created and listed through the Mendel backend's REST API.
//
//	client, err := mendelclient.MakeClient(mendelclient.Config{BaseURL: "http://localhost:8080"})
//	if err != nil { ... }
//	defer client.Close()
//	if err := client.Species().FetchIfNeeded(ctx, false); err != nil { ... }
//	ids := client.Species().Identifiers()
//
// If Config.BaseURL is empty, the MENDEL_API_BASE_URL environment variable is used.
package mendelclient
