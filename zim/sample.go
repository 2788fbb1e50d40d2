package zim

import (
	"encoding/base64"
	"errors"
)

// Paths of the sample archive built by NewSampleWriter.
const (
	SampleArticlePath  = "A/Sample_Article"
	SampleSectionPath  = "A/Fake_Section"
	SampleCategoryPath = "Category/Sample_Category"
	SampleImagePath    = "I/sample.png"
	SampleRedirectPath = "-/Redirect_Here"
)

// samplePNG is a 1x1 pixel PNG image.
const samplePNG = "iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAYAAAAfFcSJAAAADUlEQVR42mP8z8BQDwAEhQGAhKmMIQAAAABJRU5ErkJggg=="

const sampleArticleHTML = `<!DOCTYPE html>
<html lang="en">
<head><meta charset="UTF-8"><title>Sample Article</title></head>
<body>
<main>
<h1>Sample Article</h1>
<p>This article contains an image and a category link.</p>
<figure>
  <img src="/` + SampleImagePath + `" alt="Sample image" />
  <figcaption>Sample image</figcaption>
  <h1 id="fake_section">Fake section</h1>
</figure>
<p>Category: <a href="/` + SampleCategoryPath + `">Sample Category</a></p>
</main>
</body>
</html>`

const sampleCategoryHTML = `<!DOCTYPE html>
<html lang="en">
<head><meta charset="UTF-8"><title>Sample Category</title></head>
<body>
<main>
<h1>Category: Sample Category</h1>
<ul>
  <li><a href="/` + SampleArticlePath + `">Sample Article</a></li>
</ul>
</main>
</body>
</html>`

// The section page is a soft redirect: a regular HTML item whose only job
// is to send the browser to an anchor of the article.
const sampleSectionHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta http-equiv="refresh" content="0;` + SampleArticlePath + `">
<title>Sample Article</title></head>
<body>
<main>
<h1><a href="` + SampleArticlePath + `#fake_section">Fake Section</a></h1>
</main>
</body>
</html>`

// SampleImage returns the PNG stored at SampleImagePath.
func SampleImage() []byte {
	b, _ := base64.StdEncoding.DecodeString(samplePNG)
	return b
}

// NewSampleWriter returns a writer holding a small encyclopedia: an article
// with an image and a category link, the image, the category page, a soft
// redirect to an article section, a container redirect to the article and
// descriptive metadata. The article is the main page.
func NewSampleWriter() (*Writer, error) {
	w := NewWriter()
	err := errors.Join(
		w.AddItem(SampleArticlePath, "Sample Article", "text/html", []byte(sampleArticleHTML)),
		w.AddItem(SampleImagePath, "sample.png", "image/png", SampleImage()),
		w.AddItem(SampleCategoryPath, "Sample Category", "text/html", []byte(sampleCategoryHTML)),
		w.AddItem(SampleSectionPath, "Fake Section", "text/html", []byte(sampleSectionHTML)),
		w.AddRedirect(SampleRedirectPath, "Redirect Here", SampleArticlePath),
		w.AddMetadata("Creator", "zimgen"),
		w.AddMetadata("Description", "Sample ZIM with article, image, category, redirect"),
		w.AddMetadata("Name", "sample-zim"),
		w.AddMetadata("Title", "Sample ZIM"),
		w.AddMetadata("Language", "eng"),
	)
	if err != nil {
		return nil, err
	}
	w.SetMainPath(SampleArticlePath)
	return w, nil
}
