package config

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"property-poster/models"
	"property-poster/utils"
)

// PromptListing asks the operator for listing details on in, echoing questions to out.
// Numeric answers are re-asked until they parse. An empty images answer falls back to
// imagesDir; a relative answer is resolved against it.
func PromptListing(in io.Reader, out io.Writer, imagesDir string) (models.ListingDetails, error) {
	p := &prompter{sc: bufio.NewScanner(in), out: out}

	fmt.Fprintln(out, "\n📋 Enter Property Details")
	fmt.Fprintln(out, strings.Repeat("-", 30))

	var l models.ListingDetails
	l.Title = p.ask("Title: ")
	l.Description = p.ask("Description: ")
	l.Price = p.ask("Price: ")
	l.Bedrooms = p.askCount("Bedrooms: ")
	l.Bathrooms = p.askCount("Bathrooms: ")
	l.Area = p.askArea("Area (m²): ")
	l.City = p.ask("City: ")
	l.Location = l.City
	l.Address = p.ask("Address: ")
	l.Features = utils.SplitList(p.ask("Features (comma separated): "))
	l.ContactPhone = p.ask("Contact Phone: ")
	l.ContactEmail = p.ask("Contact Email: ")

	q := "Images directory (leave empty to skip): "
	if imagesDir != "" {
		q = fmt.Sprintf("Images directory (leave empty for %s): ", imagesDir)
	}
	dir := p.ask(q)
	switch {
	case dir == "":
		dir = imagesDir
	case imagesDir != "" && !filepath.IsAbs(dir):
		dir = filepath.Join(imagesDir, dir)
	}
	if dir != "" {
		if st, err := os.Stat(dir); err == nil && st.IsDir() {
			images, err := utils.ImageFiles(dir)
			if err != nil {
				return l, err
			}
			l.Images = images
			fmt.Fprintf(out, "Found %d images in %s\n", len(images), dir)
		} else {
			fmt.Fprintf(out, "Skipping images: %s is not a directory\n", dir)
		}
	}
	if p.err != nil {
		return l, p.err
	}

	l = l.WithDefaults()
	return l, l.Validate()
}

type prompter struct {
	sc  *bufio.Scanner
	out io.Writer
	err error
}

func (p *prompter) ask(q string) string {
	if p.err != nil {
		return ""
	}
	fmt.Fprint(p.out, q)
	if !p.sc.Scan() {
		p.err = p.sc.Err()
		if p.err == nil {
			p.err = io.ErrUnexpectedEOF
		}
		return ""
	}
	return strings.TrimSpace(p.sc.Text())
}

func (p *prompter) askCount(q string) int {
	for {
		v, err := utils.ParseCount(p.ask(q))
		if err == nil || p.err != nil {
			return v
		}
		fmt.Fprintf(p.out, "  %v\n", err)
	}
}

func (p *prompter) askArea(q string) float64 {
	for {
		v, err := utils.ParseArea(p.ask(q))
		if err == nil || p.err != nil {
			return v
		}
		fmt.Fprintf(p.out, "  %v\n", err)
	}
}
