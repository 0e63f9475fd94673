package immich

// AssetsForAnalysis flattens the asset hits of a search into rows with the
// commonly charted EXIF fields lifted to the top level.
func AssetsForAnalysis(resp *SearchMetadataResponse) []AssetSummary {
	if resp == nil {
		return []AssetSummary{}
	}
	out := make([]AssetSummary, 0, len(resp.Assets.Items))
	for _, a := range resp.Assets.Items {
		row := AssetSummary{
			ID:               a.ID,
			Type:             a.Type,
			FileCreatedAt:    a.FileCreatedAt,
			IsFavorite:       a.IsFavorite,
			IsArchived:       a.IsArchived,
			OriginalFileName: a.OriginalFileName,
			Checksum:         a.Checksum,
		}
		if x := a.ExifInfo; x != nil {
			row.Make = x.Make
			row.Model = x.Model
			row.Width = x.ExifImageWidth
			row.Height = x.ExifImageHeight
			row.FileSize = x.FileSizeInByte
			row.Latitude = x.Latitude
			row.Longitude = x.Longitude
			row.City = x.City
			row.Country = x.Country
		}
		out = append(out, row)
	}
	return out
}
