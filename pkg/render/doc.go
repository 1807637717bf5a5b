// Package render draws card records onto raster images.
//
// A [Renderer] is built once per layout. Construction resolves every font
// tier and loads the optional background template; rendering a record then
// only touches the record's own illustration:
//
//	r, err := render.New(layout.Badge(), render.WithAssetsDir("assets"))
//	if err != nil {
//	    return err
//	}
//	defer r.Close()
//
//	res, err := r.Render(rec)
//	err = render.SavePNG(res.Image, "cards/Fireball.png")
//
// # Drawing Order
//
// Background colour, template image, illustrations, frames, QR codes, then
// text regions in layout order. Text is drawn last so it stays legible on
// top of artwork.
//
// # Missing Resources
//
// A missing font tier falls back to the built-in font (see package fonts).
// A card without an illustration file gets a transparent placeholder of the
// window's size, so the window shows the background. Neither is an error.
package render
