// Package watch reports changes to YAML documents on disk.
//
// A FileWatcher watches either a single file or a directory tree. Events are
// filtered by extension and hidden-file rules, then collapsed by a Debouncer
// so a burst of writes produces one callback:
//
//	fw, err := watch.NewFileWatcher("docs/", cfg.Watch)
//	if err != nil {
//	    return err
//	}
//	defer fw.Stop()
//
//	err = fw.Watch(ctx, func(paths []string) error {
//	    for _, p := range paths {
//	        relist(p)
//	    }
//	    return nil
//	})
package watch
