// Package ncfile reads and writes datasets as netCDF classic files.
//
// Read and Write work on any io.ReaderAt/io.WriterAt pair, such as an
// *os.File. Encode and Decode work on in-memory images and can compress
// them as a whole with the codecs of package compress:
//
//	image, err := ncfile.Encode(root, ncfile.WithCompression(format.CompressionZstd))
//	...
//	root, err = ncfile.Decode(image, ncfile.WithDecompression(format.CompressionZstd))
//
// netCDF classic has no groups and fewer types than a dataset tree. Write
// keeps the root level only and widens the unsigned and 64 bit types; with
// WithNativeTypes the original type is recorded so Read restores it.
package ncfile
