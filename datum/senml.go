// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package datum

import "github.com/mainflux/senml"

// SenML renders the datum as a normalized SenML pack suitable for the
// streaming publisher. Numeric properties become value records, status
// properties become string-value records.
func (d *Datum) SenML() senml.Pack {
	ts := float64(d.Timestamp.UnixNano()) / 1e9

	records := make([]senml.Record, 0, len(d.Properties))
	for _, name := range d.Names() {
		p := d.Properties[name]
		r := senml.Record{
			BaseName: d.SourceID + ":",
			Name:     name,
			Time:     ts,
		}
		switch p.Classification {
		case Status:
			sv := p.StringValue
			r.StringValue = &sv
		case Accumulating:
			v := p.Value
			r.Sum = &v
		default:
			v := p.Value
			r.Value = &v
		}
		records = append(records, r)
	}

	return senml.Pack{Records: records}
}

// EncodeSenML encodes the datum as SenML JSON.
func (d *Datum) EncodeSenML() ([]byte, error) {
	return senml.Encode(d.SenML(), senml.JSON)
}
