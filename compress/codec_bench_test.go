package compress

import (
	"fmt"
	"testing"
)

func BenchmarkCodecs(b *testing.B) {
	for _, n := range []int{1 << 10, 1 << 16} {
		image := sampleImage(n)
		for name, codec := range getAllCodecs() {
			compressed, err := codec.Compress(image)
			if err != nil {
				b.Fatal(err)
			}

			b.Run(fmt.Sprintf("%s/compress/%d", name, len(image)), func(b *testing.B) {
				b.SetBytes(int64(len(image)))
				b.ReportAllocs()
				for i := 0; i < b.N; i++ {
					if _, err := codec.Compress(image); err != nil {
						b.Fatal(err)
					}
				}
			})

			b.Run(fmt.Sprintf("%s/decompress/%d", name, len(image)), func(b *testing.B) {
				b.SetBytes(int64(len(image)))
				b.ReportAllocs()
				for i := 0; i < b.N; i++ {
					if _, err := codec.Decompress(compressed); err != nil {
						b.Fatal(err)
					}
				}
			})
		}
	}
}
