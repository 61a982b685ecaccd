// Package ratelimit paces requests to Instagram.
//
// A Pacer enforces a minimum interval between consecutive calls to Wait.
// The first call returns immediately; later calls sleep for whatever part
// of the interval has not yet elapsed. Waiting honors context
// cancellation, so an interrupted backup stops between items.
//
//	pacer := ratelimit.NewPacer(cfg.Delay())
//	for _, item := range items {
//	    if err := pacer.Wait(ctx); err != nil {
//	        return err
//	    }
//	    download(item)
//	}
package ratelimit
