// Package instagram is a thin client for the parts of Instagram's web API a
// highlights and stories backup needs: password and two-factor login,
// session export and import, profile lookup, highlight trays, story reels,
// the story archive and media download.
//
// Example usage:
//
//	client := instagram.NewClient(30*time.Second, log)
//	if err := client.Login(ctx, "alice", password); err != nil {
//	    if errs.IsType(err, errs.ErrorTypeTwoFactor) {
//	        err = client.TwoFactorLogin(ctx, code)
//	    }
//	}
//	blob, _ := client.ExportSession()
//
//	profile, err := client.Profile(ctx, "bob")
//	trays, err := client.Highlights(ctx, profile.ID)
//	items, err := client.ReelItems(ctx, trays[0].ID)
package instagram
