// Package dashboard embeds the staff dashboard search core in a Go program,
// talking to the Redis Query Engine directly instead of over HTTP.
//
// Sources are declared with WithSource; each maps to one FT index over JSON
// documents stored under a key prefix.
//
//	client, _ := dashboard.New(ctx,
//	    dashboard.WithRedis("localhost:6379", ""),
//	    dashboard.WithSource(dashboard.News, dashboard.SourceConfig{
//	        Index:     "idx:news",
//	        KeyPrefix: "news:",
//	        DateField: "published_at",
//	        SortField: "published_ts",
//	    }),
//	)
//	defer client.Close()
//
//	res, _ := client.Search(ctx, dashboard.SearchQuery{Query: "land acquisition", SortBy: "newest"})
//	for _, r := range res.Records {
//	    fmt.Println(r.Source, r.ID, r.Timestamp)
//	}
package dashboard
