package compositor

// DrawableCache keeps the last StringDrawable built for a view so unchanged
// content is not re-split and re-measured every frame.
type DrawableCache struct {
	hash     uint64
	size     int
	x, y     int
	drawable *StringDrawable
}

// Get returns the cached drawable if content and position match, else nil.
func (c *DrawableCache) Get(content string, x, y int) *StringDrawable {
	if c.drawable == nil || c.x != x || c.y != y || c.size != len(content) {
		return nil
	}
	if c.hash != FastHash(content) {
		return nil
	}
	return c.drawable
}

// Set stores d for content at x, y.
func (c *DrawableCache) Set(content string, x, y int, d *StringDrawable) {
	c.hash = FastHash(content)
	c.size = len(content)
	c.x, c.y = x, y
	c.drawable = d
}

// Drawable returns the cached drawable, building it when stale.
func (c *DrawableCache) Drawable(content string, x, y int) *StringDrawable {
	if d := c.Get(content, x, y); d != nil {
		return d
	}
	d := NewStringDrawable(content, x, y)
	c.Set(content, x, y, d)
	return d
}

// Invalidate clears the cache.
func (c *DrawableCache) Invalidate() {
	c.drawable = nil
}

// FastHash computes an FNV-1a hash of s.
func FastHash(s string) uint64 {
	var h uint64 = 14695981039346656037
	for i := 0; i < len(s); i++ {
		h ^= uint64(s[i])
		h *= 1099511628211
	}
	return h
}
