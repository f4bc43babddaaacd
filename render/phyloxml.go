package render

import (
	"encoding/xml"
	"fmt"
	"io"
	"math"

	"github.com/TrevorS/hclust"
)

const (
	styleFirst  = "first_cluster_group"
	styleSecond = "second_cluster_group"
)

// PhyloXMLOptions configures PhyloXML output.
type PhyloXMLOptions struct {
	// Metric gives branch lengths and the cutoff criterion.
	Metric hclust.NodeMetric
	// Cutoff splits the tree into clusters; leaves of neighbouring clusters
	// get alternating background styles.
	Cutoff float64
	// ImageURL and DetailsURL, when set, are fmt patterns with one %s for
	// the leaf name. They become the leaf's annotation description (as an
	// <img> tag) and URI.
	ImageURL   string
	DetailsURL string
}

type phyloXML struct {
	XMLName        xml.Name  `xml:"phyloxml"`
	Xmlns          string    `xml:"xmlns,attr"`
	XmlnsXSI       string    `xml:"xmlns:xsi,attr"`
	SchemaLocation string    `xml:"xsi:schemaLocation,attr"`
	Phylogeny      phylogeny `xml:"phylogeny"`
}

type phylogeny struct {
	Rooted bool        `xml:"rooted,attr"`
	Render renderBlock `xml:"render"`
	Clade  clade       `xml:"clade"`
}

type renderBlock struct {
	Styles     styles     `xml:"styles"`
	Parameters parameters `xml:"parameters"`
}

type styles struct {
	First  style `xml:"first_cluster_group"`
	Second style `xml:"second_cluster_group"`
}

type style struct {
	Fill   string `xml:"fill,attr"`
	Stroke string `xml:"stroke,attr"`
}

type parameters struct {
	InnerCircleRadius int `xml:"circular>innerCircleRadius"`
}

type clade struct {
	BranchLength float64     `xml:"branch_length"`
	Name         *cladeName  `xml:"name,omitempty"`
	Annotation   *annotation `xml:"annotation,omitempty"`
	Chart        *chart      `xml:"chart,omitempty"`
	Clades       []clade     `xml:"clade"`
}

type cladeName struct {
	BgStyle string `xml:"bgStyle,attr"`
	Value   string `xml:",chardata"`
}

type annotation struct {
	Desc string `xml:"desc,omitempty"`
	URI  string `xml:"uri,omitempty"`
}

type chart struct {
	Component string `xml:"component"`
}

// PhyloXML writes the tree as a phyloXML document with the rendering
// extensions understood by jsPhyloSVG.
func PhyloXML(w io.Writer, e *hclust.Engine, opts PhyloXMLOptions) error {
	if opts.Metric == nil {
		opts.Metric = e.LinkLength
	}
	clusterOf := e.Labels(hclust.CutoffCriterion(opts.Metric, opts.Cutoff))

	b := cladeBuilder{e: e, opts: opts, clusterOf: clusterOf}
	doc := phyloXML{
		Xmlns:          "http://www.phyloxml.org",
		XmlnsXSI:       "http://www.w3.org/2001/XMLSchema-instance",
		SchemaLocation: "http://www.phyloxml.org http://www.phyloxml.org/1.10/phyloxml.xsd",
		Phylogeny: phylogeny{
			Render: renderBlock{
				Styles: styles{
					First:  style{Fill: "#9F9", Stroke: "#FFF"},
					Second: style{Fill: "#F99", Stroke: "#FFF"},
				},
				Parameters: parameters{InnerCircleRadius: 100},
			},
			Clade: clade{Clades: []clade{b.build(e.Root(), 0)}},
		},
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("render: encoding phyloxml: %w", err)
	}
	return enc.Close()
}

type cladeBuilder struct {
	e         *hclust.Engine
	opts      PhyloXMLOptions
	clusterOf []int
}

func (b *cladeBuilder) build(node int, branchLength float64) clade {
	c := clade{BranchLength: branchLength}
	if b.e.IsLeaf(node) {
		st := styleFirst
		if b.clusterOf[node]%2 != 0 {
			st = styleSecond
		}
		name := b.e.Name(node)
		c.Name = &cladeName{BgStyle: st, Value: CompactName(name)}
		c.Chart = &chart{Component: st}
		if b.opts.ImageURL != "" || b.opts.DetailsURL != "" {
			c.Annotation = &annotation{}
			if b.opts.ImageURL != "" {
				c.Annotation.Desc = fmt.Sprintf(`<img src="`+b.opts.ImageURL+`"/>`, name)
			}
			if b.opts.DetailsURL != "" {
				c.Annotation.URI = fmt.Sprintf(b.opts.DetailsURL, name)
			}
		}
		return c
	}

	left, right := b.e.Children(node)
	d := b.opts.Metric(node)
	c.Clades = []clade{
		b.build(left, round3(d-b.opts.Metric(left))),
		b.build(right, round3(d-b.opts.Metric(right))),
	}
	return c
}

func round3(x float64) float64 {
	return math.Round(x*1000) / 1000
}
