package extract

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"path"
	"strings"
)

// containerXML locates the package document inside an EPUB archive.
const containerXML = "META-INF/container.xml"

type epubContainer struct {
	Rootfiles []struct {
		FullPath string `xml:"full-path,attr"`
	} `xml:"rootfiles>rootfile"`
}

type epubPackage struct {
	Manifest []epubItem `xml:"manifest>item"`
	Spine    []struct {
		IDRef string `xml:"idref,attr"`
	} `xml:"spine>itemref"`
}

type epubItem struct {
	ID        string `xml:"id,attr"`
	Href      string `xml:"href,attr"`
	MediaType string `xml:"media-type,attr"`
}

// extractEPUB reads the spine-ordered XHTML documents of an EPUB archive
// and concatenates their text, one blank line between documents.
func extractEPUB(epubPath string) (string, error) {
	zr, err := zip.OpenReader(epubPath)
	if err != nil {
		return "", fmt.Errorf("%w: opening %s: %v", ErrExtraction, epubPath, err)
	}
	defer zr.Close()

	files := make(map[string]*zip.File, len(zr.File))
	for _, f := range zr.File {
		files[f.Name] = f
	}

	opfPath, err := packagePath(files)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrExtraction, epubPath, err)
	}

	pkg, err := readPackage(files, opfPath)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrExtraction, epubPath, err)
	}

	manifest := make(map[string]epubItem, len(pkg.Manifest))
	for _, item := range pkg.Manifest {
		manifest[item.ID] = item
	}

	opfDir := path.Dir(opfPath)

	var parts []string
	for _, ref := range pkg.Spine {
		item, ok := manifest[ref.IDRef]
		if !ok {
			continue
		}
		if !strings.Contains(item.MediaType, "html") {
			continue
		}

		docPath := item.Href
		if opfDir != "." {
			docPath = path.Join(opfDir, item.Href)
		}

		f, ok := files[docPath]
		if !ok {
			continue
		}

		rc, err := f.Open()
		if err != nil {
			return "", fmt.Errorf("%w: opening %s in %s: %v", ErrExtraction, docPath, epubPath, err)
		}
		text, err := htmlToText(rc)
		rc.Close()
		if err != nil {
			return "", fmt.Errorf("%w: parsing %s in %s: %v", ErrExtraction, docPath, epubPath, err)
		}
		if text != "" {
			parts = append(parts, text)
		}
	}

	return strings.Join(parts, "\n\n"), nil
}

// packagePath resolves the OPF location from the container manifest.
func packagePath(files map[string]*zip.File) (string, error) {
	f, ok := files[containerXML]
	if !ok {
		return "", fmt.Errorf("missing %s", containerXML)
	}

	rc, err := f.Open()
	if err != nil {
		return "", err
	}
	defer rc.Close()

	var container epubContainer
	if err := xml.NewDecoder(rc).Decode(&container); err != nil {
		return "", fmt.Errorf("decoding container: %v", err)
	}
	if len(container.Rootfiles) == 0 || container.Rootfiles[0].FullPath == "" {
		return "", fmt.Errorf("no rootfile in container")
	}
	return container.Rootfiles[0].FullPath, nil
}

func readPackage(files map[string]*zip.File, opfPath string) (*epubPackage, error) {
	f, ok := files[opfPath]
	if !ok {
		return nil, fmt.Errorf("missing package document %s", opfPath)
	}

	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	var pkg epubPackage
	if err := xml.NewDecoder(rc).Decode(&pkg); err != nil {
		return nil, fmt.Errorf("decoding package document: %v", err)
	}
	return &pkg, nil
}
