/*
Package waitcache hands out shared "wait for this duration" handles.

	c, _ := waitcache.New(waitcache.DefaultOptions())
	h, _ := c.Get(ctx, 0.5)
	_ = h.Wait(ctx)

Every Get with the same duration returns the same *handle.Handle. Durations
are quantized before keying (six decimal places by default), so 0.1+0.2 and
0.3 share one handle. The cache is safe for concurrent use and, unless a
capacity is configured, never forgets a handle.
*/
package waitcache
