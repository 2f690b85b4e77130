// Copyright (c) 2026 Toikana. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package schema names every table and column the repositories query, so SQL
// strings are assembled from one definition per table.
package schema
