package model

// Apply copies the set fields of the patch onto it.
func (p ContentItemPatch) Apply(it *ContentItem) {
	if p.Title != nil {
		it.Title = *p.Title
	}
	if p.Stage != nil {
		it.Stage = *p.Stage
	}
	if p.Channels != nil {
		it.Channels = append([]string(nil), (*p.Channels)...)
	}
	if p.Type != nil {
		it.Type = *p.Type
	}
	if p.CampaignID != nil {
		it.CampaignID = *p.CampaignID
	}
	if p.Date != nil {
		it.Date = *p.Date
	}
	if p.Seq != nil {
		it.Seq = *p.Seq
	}
	if p.DraftCopy != nil {
		it.DraftCopy = *p.DraftCopy
	}
	if p.Notes != nil {
		it.Notes = *p.Notes
	}
	if p.Owner != nil {
		it.Owner = *p.Owner
	}
	if p.Product != nil {
		it.Product = *p.Product
	}
	if p.DriveURL != nil {
		it.DriveURL = *p.DriveURL
	}
}

// Apply copies the set fields of the patch onto c.
func (p CampaignPatch) Apply(c *Campaign) {
	if p.Name != nil {
		c.Name = *p.Name
	}
	if p.Status != nil {
		c.Status = *p.Status
	}
	if p.Channels != nil {
		c.Channels = append([]string(nil), (*p.Channels)...)
	}
	if p.DropDate != nil {
		c.DropDate = *p.DropDate
	}
	if p.Goal != nil {
		c.Goal = *p.Goal
	}
	if p.Pillars != nil {
		c.Pillars = *p.Pillars
	}
	if p.BigThink != nil {
		c.BigThink = *p.BigThink
	}
	if p.KeyMessage != nil {
		c.KeyMessage = *p.KeyMessage
	}
	if p.Tone != nil {
		c.Tone = *p.Tone
	}
}
