package metrics

// Bucket is an age range in days.
type Bucket string

// Aging buckets, youngest first.
const (
	Bucket0To30  Bucket = "0-30"
	Bucket30To60 Bucket = "30-60"
	Bucket60To90 Bucket = "60-90"
	Bucket90Plus Bucket = "90+"
)

// Buckets lists every bucket in ascending age order.
var Buckets = []Bucket{Bucket0To30, Bucket30To60, Bucket60To90, Bucket90Plus}

// AgingBucket places an age in days into exactly one bucket. Negative ages
// (future-dated receipts) land in the youngest bucket.
func AgingBucket(days int) Bucket {
	switch {
	case days < 30:
		return Bucket0To30
	case days < 60:
		return Bucket30To60
	case days < 90:
		return Bucket60To90
	default:
		return Bucket90Plus
	}
}

// Rank returns the bucket's position in Buckets, or -1.
func (b Bucket) Rank() int {
	for i, x := range Buckets {
		if x == b {
			return i
		}
	}
	return -1
}
